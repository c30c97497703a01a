package conversation

import (
	"strconv"
	"strings"
)

// Callback data is encoded as "kind:value".
const (
	cbDay    = "day"
	cbPage   = "page"
	pagePrev = "prev"
	pageNext = "next"
)

func encodeCallback(kind, value string) string {
	return kind + ":" + value
}

func decodeCallback(data string) (kind, value string, ok bool) {
	kind, value, ok = strings.Cut(data, ":")
	if !ok || kind == "" || value == "" {
		return "", "", false
	}
	return kind, value, true
}

func dayCallback(day int) string {
	return encodeCallback(cbDay, strconv.Itoa(day))
}

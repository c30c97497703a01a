package conversation

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weekly-planner/internal/model"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelAddTask),
			tgbotapi.NewKeyboardButton(menuLabelDeleteTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelShowSchedule),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

// weekdayPicker renders toggle buttons, marking selected days.
func weekdayPicker(selected model.Weekdays) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(dayButton(model.Monday, selected), dayButton(model.Tuesday, selected), dayButton(model.Wednesday, selected)),
		tgbotapi.NewInlineKeyboardRow(dayButton(model.Thursday, selected), dayButton(model.Friday, selected), dayButton(model.Saturday, selected)),
		tgbotapi.NewInlineKeyboardRow(dayButton(model.Sunday, selected)),
	)
}

func dayButton(day int, selected model.Weekdays) tgbotapi.InlineKeyboardButton {
	label := weekdayShortNames[day]
	if selected.Contains(day) {
		label = "✅ " + label
	}
	return tgbotapi.NewInlineKeyboardButtonData(label, dayCallback(day))
}

func pagerKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️", encodeCallback(cbPage, pagePrev)),
			tgbotapi.NewInlineKeyboardButtonData("➡️", encodeCallback(cbPage, pageNext)),
		),
	)
}

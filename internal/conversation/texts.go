package conversation

const (
	menuLabelAddTask      = "📝 Добавить задачу"
	menuLabelShowSchedule = "📋 Посмотреть расписание"
	menuLabelDeleteTasks  = "🗑 Удалить задачи"
	doneKeyword           = "Готово"
)

const (
	textUnknownCommand = "⚠️ Неизвестная команда!"
	textFailure        = "⚠️ Что-то пошло не так, попробуйте ещё раз."
	textStarted        = "Бот активен!"
	textResetDone      = "✅ База данных была очищена"
	textHelp           = "ℹ️ <b>Как пользоваться</b>\n" +
		"• " + menuLabelAddTask + " — создать еженедельную задачу\n" +
		"• " + menuLabelShowSchedule + " — расписание по дням недели\n" +
		"• " + menuLabelDeleteTasks + " — удалить задачи по ID\n" +
		"• /reset — удалить все задачи\n\n" +
		"Перед началом, в начале и в конце задачи придёт напоминание."

	textAskName      = "Введите название задачи:"
	textEmptyName    = "Название не может быть пустым. Введите название задачи:"
	textAskWeekdays  = "Выберите дни недели (после выбора напиши \"" + doneKeyword + "\"):"
	textNoWeekdays   = "Выберите хотя бы один день недели, затем напиши \"" + doneKeyword + "\":"
	textAskStart     = "Напиши время начала задачи (HH:MM):"
	textAskEnd       = "Напиши время окончания задачи (HH:MM):"
	textTaskAddedFmt = "✅ %s успешно добавлена!"

	textAskIDs       = "Введите ID задачи (или задач через запятую):"
	textBadIDs       = "⚠️ ID должны быть целыми числами через запятую. Попробуйте ещё раз:"
	textTasksDeleted = "✅ Задачи успешно удалены!"

	textEmptyDay = "На этот день нет задач! 🙌"
)

var weekdayNames = [...]string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}

var weekdayShortNames = [...]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

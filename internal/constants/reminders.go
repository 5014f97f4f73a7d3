package constants

// Reminder slots. The numeric ids double as notification request codes.
const (
	EveningCheckSlotID = 1001
	LateCheckSlotID    = 1002

	EveningCheckHour   = 20
	EveningCheckMinute = 30
	LateCheckHour      = 23
	LateCheckMinute    = 20

	// EveningNudgeCutoffHour is the hour before which the evening slot always notifies.
	EveningNudgeCutoffHour = 21

	ReminderChannelID         = "reminders"
	ReminderChannelName       = "Reminders"
	ReminderChannelImportance = "high"

	EveningCheckTitle = "Evening reminder"
	EveningCheckBody  = "There are evening items that have not been checked yet."
	LateCheckTitle    = "23:20 reminder"
	LateCheckBody     = "Some items are still unchecked for today."
)

package handlers

// Подсказки по формату команд
const (
	usageStatus    = "/status <аудитория> <корпус> [ДД.ММ] [ЧЧ:ММ]\nНапример: /status 101 ГК 13:45"
	usageFree      = "/free [корпус] [ДД.ММ] [ЧЧ:ММ]\nНапример: /free ГК 10:45"
	usagePick      = "/pick <корпус|any> <тип|любая> <мест> [этаж=N] [оборудование через запятую]\nНапример: /pick ГК семинарская 20 этаж=3 проектор"
	usageToday     = "/today <аудитория> <корпус> [ДД.ММ]"
	usageDay       = "/day <корпус> [ДД.ММ]"
	usageSearch    = "/search <текст>\nНапример: /search физика пн 10:45"
	usageMark      = "/mark <аудитория> <корпус> [кол-во] [шумно] [не входить]"
	usageRoom      = "<команда> <аудитория> <корпус>"
	usageCheck     = "/check <аудитория> <корпус> <ДД.ММ> <начало> <конец>"
	usageAdd       = "/add <аудитория> <корпус> <ДД.ММ|ДД.ММ-ДД.ММ|всегда> [пн,чт] <начало> <конец> <описание>\nНапример: /add 101 ГК 21.03 09:00 10:25 Консультация"
	usageFind      = "/find <аудитория> <корпус> [ДД.ММ]"
	usageEdit      = "/edit <номер> <начало> <конец> <описание>"
	usageDelete    = "/delete <номер>"
	usageEquipment = "/equipment <аудитория> <корпус> <оборудование через запятую | ->"
)

// maxMessageLength ограничение Telegram на длину текста сообщения
const maxMessageLength = 4096

package chat

// Canned reply templates per conversation language. Used when the
// auxiliary completion call is unavailable or fails, and for the
// deterministic parts of gated replies. Unknown languages fall back to
// English; the auxiliary completion path localizes beyond these three.
type templateSet struct {
	askOrder      string
	foundForHint  string // %d = count, %s = comma-joined order numbers
	notFound      string // %s = order number candidate
	didYouMean    string // %s = comma-joined suggestions
	extraHelp     string
	summaryHeader string
	askDevice     string
	labelOrder    string
	labelEmail    string
	labelCountry  string
	labelPlan     string
	labelPrice    string
	labelICCID    string
}

var templates = map[string]templateSet{
	"English": {
		askOrder: "Please enter your exact order number (digits only, 5 or more). " +
			"You can find it in your email receipt, on the payment confirmation page, " +
			"or in your account's order history. Example: 15622.",
		foundForHint: "I found %d order(s) for your contact details with these numbers: %s. " +
			"If one of them is yours, please send me that number.",
		notFound:   "Order not found: %s. Please check the digits (no spaces) and try again.",
		didYouMean: "Did you mean one of these: %s?",
		extraHelp: "Still no luck? Double-check the confirmation email from your purchase, " +
			"or send me the email address you ordered with and I'll look it up.",
		summaryHeader: "Order summary:",
		askDevice:     "Please tell me which device you use (manufacturer and model).",
		labelOrder:    "Order",
		labelEmail:    "Email",
		labelCountry:  "Country",
		labelPlan:     "Plan",
		labelPrice:    "Price",
		labelICCID:    "ICCID",
	},
	"Russian": {
		askOrder: "Пожалуйста, введите точный номер заказа (только цифры, от 5). " +
			"Его можно найти в письме-квитанции на email, на странице подтверждения оплаты " +
			"или в истории заказов в аккаунте. Пример: 15622.",
		foundForHint: "По вашим контактным данным найдено заказов: %d, с номерами: %s. " +
			"Если один из них ваш, пришлите его номер.",
		notFound:   "Заказ не найден: %s. Проверьте номер (без пробелов) и попробуйте снова.",
		didYouMean: "Возможно, вы имели в виду: %s?",
		extraHelp: "Не получается? Проверьте письмо с подтверждением покупки " +
			"или пришлите email, на который оформлен заказ, и я поищу по нему.",
		summaryHeader: "Сводка по заказу:",
		askDevice:     "Подскажите, каким устройством вы пользуетесь (производитель и модель)?",
		labelOrder:    "Заказ",
		labelEmail:    "Email",
		labelCountry:  "Страна",
		labelPlan:     "Тариф",
		labelPrice:    "Цена",
		labelICCID:    "ICCID",
	},
	"Ukrainian": {
		askOrder: "Будь ласка, введіть точний номер замовлення (лише цифри, від 5). " +
			"Його можна знайти в листі-квитанції на email, на сторінці підтвердження оплати " +
			"або в історії замовлень в акаунті. Приклад: 15622.",
		foundForHint: "За вашими контактними даними знайдено замовлень: %d, з номерами: %s. " +
			"Якщо одне з них ваше, надішліть його номер.",
		notFound:   "Замовлення не знайдено: %s. Перевірте номер (без пробілів) і спробуйте ще раз.",
		didYouMean: "Можливо, ви мали на увазі: %s?",
		extraHelp: "Не виходить? Перевірте лист із підтвердженням покупки " +
			"або надішліть email, на який оформлено замовлення, і я пошукаю за ним.",
		summaryHeader: "Зведення замовлення:",
		askDevice:     "Підкажіть, яким пристроєм ви користуєтесь (виробник і модель)?",
		labelOrder:    "Замовлення",
		labelEmail:    "Email",
		labelCountry:  "Країна",
		labelPlan:     "Тариф",
		labelPrice:    "Ціна",
		labelICCID:    "ICCID",
	},
}

func templatesFor(language string) templateSet {
	if t, ok := templates[language]; ok {
		return t
	}
	return templates["English"]
}

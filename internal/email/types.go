package email

// Email - одно письмо. Template заполняется, когда тело отрендерено из шаблона.
type Email struct {
	From     string
	ReplyTo  string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
	Template string
}

// TemplateData - данные для шаблонов (имя стажера, компания, время слота и т.д.)
type TemplateData map[string]interface{}

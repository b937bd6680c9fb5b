package dto

// ErrorResponse respuesta de error de la API. En fallas parciales RefID y
// Steps llevan la identidad de lo ya escrito para que el operario ubique y
// repare el estado a medias.
type ErrorResponse struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	RefID     string   `json:"ref_id,omitempty"`
	RefNumber string   `json:"ref_number,omitempty"`
	Steps     []string `json:"steps,omitempty"`
}

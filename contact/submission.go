package contact

import "strings"

// Field nomeia um campo do formulário.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Fields é a ordem canônica de avaliação (e de "primeiro erro").
var Fields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// Submission é o valor transitório enviado pelo cliente. Nunca é armazenado.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Trimmed devolve uma cópia com espaços das pontas removidos.
func (s Submission) Trimmed() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Subject: strings.TrimSpace(s.Subject),
		Message: strings.TrimSpace(s.Message),
	}
}

// FieldErrors mapeia campo -> mensagem. Vazio significa submissão válida.
type FieldErrors map[Field]string

func (e FieldErrors) Valid() bool { return len(e) == 0 }

// First devolve o primeiro erro na ordem canônica.
func (e FieldErrors) First() (Field, string, bool) {
	for _, f := range Fields {
		if msg, ok := e[f]; ok {
			return f, msg, true
		}
	}
	return "", "", false
}

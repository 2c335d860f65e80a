package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"contact-gateway/contact/messages"
)

// Checagem sintática simples (local@dominio.tld), não é RFC 5322.
// \s do Go é só ASCII, por isso os espaços Unicode entram explícitos.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

const (
	minNameLen    = 2
	minSubjectLen = 3
	minMessageLen = 10
)

type rule struct {
	field Field
	valid func(Submission) bool
}

var rules = []rule{
	{FieldName, func(s Submission) bool { return minTrimmedLen(s.Name, minNameLen) }},
	// o e-mail é testado cru: espaços nas pontas reprovam
	{FieldEmail, func(s Submission) bool { return s.Email != "" && emailPattern.MatchString(s.Email) }},
	{FieldSubject, func(s Submission) bool { return minTrimmedLen(s.Subject, minSubjectLen) }},
	{FieldMessage, func(s Submission) bool { return minTrimmedLen(s.Message, minMessageLen) }},
}

func minTrimmedLen(v string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(v)) >= n
}

// ValidEmail reporta se v tem o formato local@dominio.tld.
func ValidEmail(v string) bool { return emailPattern.MatchString(v) }

// Violations devolve os campos inválidos na ordem canônica.
// Todas as regras são avaliadas, mesmo depois da primeira falha.
func Violations(s Submission) []Field {
	var out []Field
	for _, r := range rules {
		if !r.valid(s) {
			out = append(out, r.field)
		}
	}
	return out
}

// FirstViolation devolve o primeiro campo inválido (name, email, subject, message).
func FirstViolation(s Submission) (Field, bool) {
	for _, r := range rules {
		if !r.valid(s) {
			return r.field, true
		}
	}
	return "", false
}

// Validate devolve o conjunto completo de erros com as mensagens padrão.
func Validate(s Submission) FieldErrors {
	return Localize(Violations(s), messages.Default(), messages.DefaultLang)
}

// Localize monta FieldErrors para os campos informados no idioma lang.
func Localize(fields []Field, cat *messages.Catalog, lang string) FieldErrors {
	errs := make(FieldErrors, len(fields))
	for _, f := range fields {
		errs[f] = cat.T(lang, messages.FieldErrorKey(string(f)))
	}
	return errs
}

package domain

import "time"

// Market representa un mercado de predicción binario del feed CLOB.
type Market struct {
	ConditionID string
	Question    string
	Category    string
	EndDate     time.Time // fecha de resolución del mercado
	Tokens      []Token
	Active      bool
	Closed      bool
}

// Token es uno de los dos lados del mercado (YES/NO).
type Token struct {
	TokenID string
	Outcome string // "Yes" | "No"
}

// Analyzable devuelve true si el mercado se puede analizar:
// activo, no cerrado y con sus dos tokens complementarios.
// Un mercado con menos de dos tokens no tiene par YES/NO y se descarta.
func (m Market) Analyzable() bool {
	return m.Active && !m.Closed && len(m.Tokens) >= 2
}

// YesToken devuelve el token YES del mercado.
func (m Market) YesToken() Token {
	for _, t := range m.Tokens {
		if t.Outcome == "Yes" {
			return t
		}
	}
	return m.Tokens[0]
}

// NoToken devuelve el token NO del mercado.
func (m Market) NoToken() Token {
	for _, t := range m.Tokens {
		if t.Outcome == "No" {
			return t
		}
	}
	return m.Tokens[1]
}

// DaysToExpiry devuelve los días (fraccionales) hasta la resolución del mercado
// medidos desde now. Puede ser negativo si la fecha ya pasó; el risk scorer
// trata los valores negativos como "expira ya".
func (m Market) DaysToExpiry(now time.Time) float64 {
	if m.EndDate.IsZero() {
		return 0
	}
	return m.EndDate.Sub(now).Hours() / 24
}

// TruncateQuestion devuelve la pregunta del mercado truncada a maxLen caracteres.
// Si la pregunta está vacía usa los primeros caracteres del conditionID como fallback.
func TruncateQuestion(question, conditionID string, maxLen int) string {
	q := question
	if q == "" {
		if len(conditionID) > 20 {
			q = conditionID[:20] + "..."
		} else {
			q = conditionID
		}
	}
	if len(q) > maxLen {
		q = q[:maxLen-3] + "..."
	}
	return q
}

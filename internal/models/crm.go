// internal/models/crm.go

// CRM row types as the Sankhya endpoints and cache entries deliver them.
// Numeric fields arrive as numbers or as strings depending on the producer,
// so monetary/stock values use the lenient decoders below.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// LenientFloat decodes a JSON number, a numeric string, or anything else as
// 0. It never fails: a junk amount contributes zero instead of aborting the
// containing dataset.
type LenientFloat float64

func (f *LenientFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = LenientFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = LenientFloat(v)
	return nil
}

func (f LenientFloat) Float64() float64 {
	return float64(f)
}

// LenientString decodes a JSON string or number as its textual form; other
// shapes become empty.
type LenientString string

func (s *LenientString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*s = ""
			return nil
		}
		*s = LenientString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*s = ""
		return nil
	}
	*s = LenientString(n.String())
	return nil
}

func (s LenientString) String() string {
	return string(s)
}

// Lead is one open sales opportunity.
type Lead struct {
	Nome       string       `json:"NOME"`
	Valor      LenientFloat `json:"VALOR"`
	StatusLead string       `json:"STATUS_LEAD"`
	CodEstagio string       `json:"CODESTAGIO"`
}

// Activity is one lead follow-up task.
type Activity struct {
	Descricao string `json:"DESCRICAO"`
	Status    string `json:"STATUS"`
	Tipo      string `json:"TIPO"`
}

// Order is one closed sale.
type Order struct {
	NuNota   LenientString `json:"NUNOTA"`
	NomeParc string        `json:"NOMEPARC"`
	VlrNota  LenientFloat  `json:"VLRNOTA"`
	DtNeg    string        `json:"DTNEG"`
}

// Partner is a registered customer or prospect.
type Partner struct {
	CodParc  LenientString `json:"CODPARC"`
	NomeParc string        `json:"NOMEPARC"`
}

// Product is one catalog entry with its current stock level.
type Product struct {
	CodProd   LenientString `json:"CODPROD"`
	DescrProd string        `json:"DESCRPROD"`
	Estoque   LenientFloat  `json:"ESTOQUE"`
}

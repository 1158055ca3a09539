package core

import (
	"strings"

	"landprice_service/internal/domain/model"
)

// LandTypeEncoder multi-hot encodes a comma separated land-use string.
type LandTypeEncoder struct {
	landTypes []model.LandType
	names     []string
}

func NewLandTypeEncoder(landTypes []model.LandType) *LandTypeEncoder {
	names := make([]string, len(landTypes))
	for i, lt := range landTypes {
		names[i] = normalizeToken(lt.Name)
	}
	return &LandTypeEncoder{landTypes: landTypes, names: names}
}

// Encode sets slot i to 1 when the i-th land type appears among the tokens.
// Unknown tokens are ignored.
func (e *LandTypeEncoder) Encode(landType string) model.LandTypeVector {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Split(landType, ",") {
		if tok = normalizeToken(tok); tok != "" {
			tokens[tok] = struct{}{}
		}
	}

	vec := make(model.LandTypeVector, len(e.names))
	for i, name := range e.names {
		if _, ok := tokens[name]; ok {
			vec[i] = 1
		}
	}
	return vec
}

// Features names each slot of vec by its land type column.
func (e *LandTypeEncoder) Features(vec model.LandTypeVector) map[string]float64 {
	out := make(map[string]float64, len(e.landTypes))
	for i, lt := range e.landTypes {
		if i < len(vec) {
			out[lt.Column] = vec[i]
		}
	}
	return out
}

// normalizeToken lowercases and collapses whitespace.
func normalizeToken(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

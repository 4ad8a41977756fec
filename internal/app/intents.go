package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"cineplan/internal/domain"
)

/********** upstream model output decoding **********/

// The parser collaborator is asked for strict JSON but does not always
// comply. Decoding follows a bounded fallback chain: canonical list, then a
// small set of known alternate shapes, then a bracket-slice salvage, then
// fail closed. Nothing here guesses beyond these shapes.

// wrapperKeys are object keys under which models have been observed to nest
// the intent list instead of returning it bare.
var wrapperKeys = []string{"resultats", "projections", "locations", "intentions", "data", "result"}

// ParseIntents decodes upstream intent output. It always returns a usable
// (possibly empty) list plus human-readable warnings for whatever it had to
// tolerate.
func ParseIntents(raw string) ([]domain.Intent, []string) {
	raw = strings.TrimSpace(raw)
	var warnings []string

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		// Not valid JSON: salvage the outermost bracketed slice.
		start, end := strings.Index(raw, "["), strings.LastIndex(raw, "]")
		if start < 0 || end <= start {
			return nil, append(warnings, "upstream output is not interpretable JSON")
		}
		var list []any
		if err := json.Unmarshal([]byte(raw[start:end+1]), &list); err != nil {
			return nil, append(warnings, "upstream output is not interpretable JSON")
		}
		warnings = append(warnings, "upstream output was not valid JSON; extracted embedded list")
		intents, ws := intentsFromList(list)
		return intents, append(warnings, ws...)
	}

	switch v := data.(type) {
	case []any:
		intents, ws := intentsFromList(v)
		return intents, append(warnings, ws...)
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return nil, append(warnings, "upstream parser answered: "+msg)
		}
		// single intent object
		if _, ok := v["localisation"]; ok {
			if in, ok := intentFromObject(v); ok {
				return []domain.Intent{in}, warnings
			}
			return nil, append(warnings, "upstream intent object missing required fields")
		}
		// known wrapper objects
		for _, key := range wrapperKeys {
			if list, ok := v[key].([]any); ok {
				intents, ws := intentsFromList(list)
				return intents, append(warnings, ws...)
			}
		}
		return nil, append(warnings, "upstream object carries no recognizable intent list")
	default:
		return nil, append(warnings, "upstream output is neither a list nor an object")
	}
}

func intentsFromList(list []any) ([]domain.Intent, []string) {
	var intents []domain.Intent
	var warnings []string
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			warnings = append(warnings, "skipped non-object intent entry")
			continue
		}
		in, ok := intentFromObject(obj)
		if !ok {
			warnings = append(warnings, "skipped intent entry missing localisation/nombre")
			continue
		}
		intents = append(intents, in)
	}
	return intents, warnings
}

func intentFromObject(obj map[string]any) (domain.Intent, bool) {
	loc, ok := obj["localisation"].(string)
	loc = strings.TrimSpace(loc)
	if !ok || loc == "" {
		return domain.Intent{}, false
	}
	if _, present := obj["nombre"]; !present {
		return domain.Intent{}, false
	}
	in := domain.Intent{Location: loc}
	// audience coerces to 0 when unusable, room count is dropped instead
	if n, ok := coerceInt(obj["nombre"]); ok {
		in.Audience = n
	}
	if n, ok := coerceInt(obj["nombre_seances"]); ok && n > 0 {
		in.RoomCount = n
	}
	return in, true
}

/********** refinement instruction decoding **********/

var actionSynonyms = map[string]string{
	"ajouter":      domain.ActionAdd,
	"add":          domain.ActionAdd,
	"supprimer":    domain.ActionRemove,
	"remove":       domain.ActionRemove,
	"modifier":     domain.ActionModify,
	"modify":       domain.ActionModify,
	"incompris":    domain.ActionUnrecognized,
	"unrecognized": domain.ActionUnrecognized,
}

// ParseInstruction decodes one refinement command. Anything undecodable or
// unknown degrades to incompris; the engine treats that as a no-op.
func ParseInstruction(raw string) domain.Instruction {
	cleaned := stripFences(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return domain.Instruction{
			Action:  domain.ActionUnrecognized,
			Message: "instruction is not valid JSON",
		}
	}

	action, _ := obj["action"].(string)
	action = normalizeScreeningTerm(strings.ToLower(strings.TrimSpace(action)))
	canonical, ok := actionSynonyms[action]
	if !ok {
		msg, _ := obj["message"].(string)
		if msg == "" {
			msg = "unsupported action: " + action
		}
		return domain.Instruction{Action: domain.ActionUnrecognized, Message: msg}
	}

	ins := domain.Instruction{Action: canonical}
	if loc, ok := obj["localisation"].(string); ok {
		ins.Location = strings.TrimSpace(loc)
	}
	if msg, ok := obj["message"].(string); ok {
		ins.Message = msg
	}
	ins.Count = 1
	if n, ok := coerceInt(obj["nombre"]); ok {
		ins.Count = n
	}
	if crit, ok := obj["critere"].(string); ok {
		ins.Criterion = normalizeScreeningTerm(strings.ToLower(strings.TrimSpace(crit)))
	}
	if v, ok := coerceFloat(obj["valeur"]); ok {
		ins.Value = &v
	}
	ins.Operator = domain.OpLess
	if op, ok := obj["operateur"].(string); ok && strings.TrimSpace(op) != "" {
		ins.Operator = strings.ToLower(strings.TrimSpace(op))
	}
	return ins
}

// stripFences removes the "json " prefix and markdown code fences that chat
// models like to wrap answers in.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "json "):
		s = s[5:]
	case strings.HasPrefix(s, "```json"):
		s = strings.TrimPrefix(s, "```json")
		s = strings.ReplaceAll(s, "```", "")
	case strings.HasPrefix(s, "```"):
		s = strings.ReplaceAll(s, "```", "")
	}
	return strings.TrimSpace(s)
}

// normalizeScreeningTerm rewrites "séance(s)" to "salle(s)": a screening is
// a room in this vocabulary. Plural first so the singular pass cannot
// mangle it.
func normalizeScreeningTerm(s string) string {
	s = strings.ReplaceAll(s, "séances", "salles")
	s = strings.ReplaceAll(s, "séance", "salle")
	return s
}

/********** flexible coercion **********/

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", "."))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

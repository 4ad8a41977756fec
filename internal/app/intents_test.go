package app_test

import (
	"testing"

	"cineplan/internal/app"
	"cineplan/internal/domain"
)

func TestParseIntents_CanonicalList(t *testing.T) {
	raw := `[{"localisation": "Paris", "nombre": 500, "nombre_seances": 5},
	         {"localisation": "Rennes", "nombre": 100}]`
	intents, warns := app.ParseIntents(raw)
	if len(warns) != 0 {
		t.Fatalf("warnings = %v", warns)
	}
	if len(intents) != 2 {
		t.Fatalf("intents = %d", len(intents))
	}
	if intents[0] != (domain.Intent{Location: "Paris", Audience: 500, RoomCount: 5}) {
		t.Fatalf("intents[0] = %+v", intents[0])
	}
	if intents[1].RoomCount != 0 {
		t.Fatalf("absent nombre_seances must stay zero, got %d", intents[1].RoomCount)
	}
}

func TestParseIntents_CoercionRules(t *testing.T) {
	raw := `[{"localisation": "Lyon", "nombre": "beaucoup", "nombre_seances": "trois"}]`
	intents, _ := app.ParseIntents(raw)
	if len(intents) != 1 {
		t.Fatalf("intents = %d", len(intents))
	}
	// audience coerces to 0, the unusable room count is dropped
	if intents[0].Audience != 0 || intents[0].RoomCount != 0 {
		t.Fatalf("intent = %+v", intents[0])
	}
}

func TestParseIntents_MessageObject(t *testing.T) {
	intents, warns := app.ParseIntents(`{"message": "je n'ai pas compris"}`)
	if len(intents) != 0 || len(warns) == 0 {
		t.Fatalf("intents = %v, warns = %v", intents, warns)
	}
}

func TestParseIntents_SingleObject(t *testing.T) {
	intents, _ := app.ParseIntents(`{"localisation": "Nice", "nombre": 200, "nombre_seances": 2}`)
	if len(intents) != 1 || intents[0].Location != "Nice" || intents[0].RoomCount != 2 {
		t.Fatalf("intents = %+v", intents)
	}
}

func TestParseIntents_WrapperKeys(t *testing.T) {
	for _, raw := range []string{
		`{"resultats": [{"localisation": "Lille", "nombre": 50}]}`,
		`{"projections": [{"localisation": "Lille", "nombre": 50}]}`,
		`{"data": [{"localisation": "Lille", "nombre": 50}]}`,
	} {
		intents, _ := app.ParseIntents(raw)
		if len(intents) != 1 || intents[0].Location != "Lille" {
			t.Fatalf("raw %s -> %+v", raw, intents)
		}
	}
}

func TestParseIntents_BracketSalvage(t *testing.T) {
	raw := "Voici le plan :\n[{\"localisation\": \"Caen\", \"nombre\": 80}]\nBonne journée !"
	intents, warns := app.ParseIntents(raw)
	if len(intents) != 1 || intents[0].Location != "Caen" {
		t.Fatalf("intents = %+v", intents)
	}
	if len(warns) == 0 {
		t.Fatal("salvage must be reported")
	}
}

func TestParseIntents_FailsClosed(t *testing.T) {
	for _, raw := range []string{"pas de json ici", `{"autre": 1}`, `42`, `[{"ville": "Paris"}]`} {
		intents, warns := app.ParseIntents(raw)
		if len(intents) != 0 {
			t.Fatalf("raw %q must yield no intents, got %+v", raw, intents)
		}
		if len(warns) == 0 {
			t.Fatalf("raw %q must warn", raw)
		}
	}
}

func TestParseInstruction_Canonical(t *testing.T) {
	ins := app.ParseInstruction(`{"action": "supprimer", "critere": "capacite_min", "valeur": 100, "operateur": "inferieur"}`)
	if ins.Action != domain.ActionRemove || ins.Criterion != domain.CriterionCapacityMin {
		t.Fatalf("ins = %+v", ins)
	}
	if ins.Value == nil || *ins.Value != 100 || ins.Operator != domain.OpLess {
		t.Fatalf("ins = %+v", ins)
	}
}

func TestParseInstruction_FenceAndPrefixStripping(t *testing.T) {
	for _, raw := range []string{
		"json {\"action\": \"ajouter\", \"localisation\": \"Marseille\", \"nombre\": 2}",
		"```json\n{\"action\": \"ajouter\", \"localisation\": \"Marseille\", \"nombre\": 2}\n```",
		"```\n{\"action\": \"ajouter\", \"localisation\": \"Marseille\", \"nombre\": 2}\n```",
	} {
		ins := app.ParseInstruction(raw)
		if ins.Action != domain.ActionAdd || ins.Location != "Marseille" || ins.Count != 2 {
			t.Fatalf("raw %q -> %+v", raw, ins)
		}
	}
}

func TestParseInstruction_ScreeningSynonym(t *testing.T) {
	// "séance" embedded in fields is a synonym for "salle".
	ins := app.ParseInstruction(`{"action": "supprimer les séances", "localisation": "Marseille"}`)
	if ins.Action != domain.ActionUnrecognized {
		// the rewritten action is "supprimer les salles", still not a bare
		// verb, so it fails closed
		t.Fatalf("ins = %+v", ins)
	}

	ins = app.ParseInstruction(`{"action": "supprimer", "critere": "capacite_min_séances", "valeur": 10}`)
	if ins.Criterion != "capacite_min_salles" {
		t.Fatalf("criterion = %q, séance must normalize to salle", ins.Criterion)
	}
}

func TestParseInstruction_Defaults(t *testing.T) {
	ins := app.ParseInstruction(`{"action": "ajouter", "localisation": "Paris", "nombre": "beaucoup"}`)
	if ins.Count != 1 {
		t.Fatalf("count = %d, unusable nombre defaults to 1", ins.Count)
	}
	ins = app.ParseInstruction(`{"action": "supprimer", "critere": "capacite_min", "valeur": 50}`)
	if ins.Operator != domain.OpLess {
		t.Fatalf("operator = %q, want default inferieur", ins.Operator)
	}
}

func TestParseInstruction_FailClosed(t *testing.T) {
	for _, raw := range []string{"pas du json", `{"action": "danser"}`, `{}`} {
		ins := app.ParseInstruction(raw)
		if ins.Action != domain.ActionUnrecognized {
			t.Fatalf("raw %q -> %+v, must fail closed", raw, ins)
		}
	}
}

func TestParseInstruction_EnglishSynonyms(t *testing.T) {
	ins := app.ParseInstruction(`{"action": "add", "localisation": "Toulouse", "nombre": 1}`)
	if ins.Action != domain.ActionAdd {
		t.Fatalf("ins = %+v", ins)
	}
	ins = app.ParseInstruction(`{"action": "remove", "localisation": "Toulouse"}`)
	if ins.Action != domain.ActionRemove {
		t.Fatalf("ins = %+v", ins)
	}
}

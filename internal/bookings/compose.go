package bookings

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const goalsCommentKey = "comentarioEntrenamiento"

// ComposeDetail renders the booking's stored detail field as human-readable
// text for notification messages. It never fails: malformed stored data
// yields a fixed fallback string, and unknown therapy types yield "".
func ComposeDetail(b *Booking) string {
	switch b.TherapyType {
	case TherapyQuiromasaje:
		if b.Detail == "" {
			return "Tipo de masaje: No especificado"
		}
		return "Tipo de masaje: " + b.Detail
	case TherapyOsteopatia:
		if b.Detail == "" {
			return "Zona a tratar: No especificada"
		}
		return "Zona a tratar: " + b.Detail
	case TherapyEntrenamiento:
		return composeGoals(b.Detail)
	}
	return ""
}

// composeGoals decodes the serialized goals object into a checklist plus a
// trailing comment line.
func composeGoals(detail string) string {
	var goals map[string]any
	if err := json.Unmarshal([]byte(detail), &goals); err != nil {
		return "Objetivos no disponibles"
	}

	var active []string
	for key, value := range goals {
		if key == goalsCommentKey {
			continue
		}
		if enabled, ok := value.(bool); ok && enabled {
			active = append(active, "✔️ "+key)
		}
	}
	sort.Strings(active)

	comment, _ := goals[goalsCommentKey].(string)
	return fmt.Sprintf("Objetivos:\n%s\nComentario: %s", strings.Join(active, "\n"), comment)
}

// EventDescription builds the full description text used by calendar events
// and calendar attachments.
func EventDescription(b *Booking) string {
	comment := b.Comment
	if comment == "" {
		comment = "Sin comentarios"
	}
	return fmt.Sprintf("Cliente: %s\n%s\nComentario: %s", b.CustomerName, ComposeDetail(b), comment)
}

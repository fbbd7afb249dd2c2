package app

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names one of the tracker's collections.
type Kind string

const (
	KindIdea     Kind = "idea"
	KindProject  Kind = "project"
	KindDeadline Kind = "deadline"
)

// ErrAmbiguous is returned when an id prefix matches more than one record.
var ErrAmbiguous = errors.New("app: ambiguous id")

// Resolve expands ref, a full id or a unique prefix of one, into the full
// id. A ref matching nothing is returned unchanged so the operation that
// follows becomes a no-op.
func (t *Tracker) Resolve(kind Kind, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	t.mu.Lock()
	defer t.mu.Unlock()

	var ids []string
	switch kind {
	case KindIdea:
		for _, i := range t.state.Ideas {
			ids = append(ids, i.ID)
		}
	case KindProject:
		for _, p := range t.state.Projects {
			ids = append(ids, p.ID)
		}
	case KindDeadline:
		for _, d := range t.state.Deadlines {
			ids = append(ids, d.ID)
		}
	default:
		return "", fmt.Errorf("app: unknown kind %q", kind)
	}

	var match []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if ref != "" && strings.HasPrefix(id, ref) {
			match = append(match, id)
		}
	}
	switch len(match) {
	case 0:
		return ref, nil
	case 1:
		return match[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d %ss", ErrAmbiguous, ref, len(match), kind)
	}
}

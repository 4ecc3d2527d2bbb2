package repositories

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// memoryRepository keeps users and profiles in maps and understands the entity types of this package
type memoryRepository struct {
	users    map[string]UserEntity
	profiles map[string]ProfileEntity
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: map[string]UserEntity{}, profiles: map[string]ProfileEntity{}}
}

func (m *memoryRepository) GetAll(_ context.Context, target any, _ string) error {
	out, ok := target.(*[]UserEntity)
	if !ok {
		return fmt.Errorf("unsupported target %T", target)
	}
	for _, u := range m.users {
		*out = append(*out, u)
	}
	sort.Slice(*out, func(i, j int) bool { return (*out)[i].Email < (*out)[j].Email })
	return nil
}

func (m *memoryRepository) GetOneByField(_ context.Context, target any, field string, value any) error {
	switch t := target.(type) {
	case *UserEntity:
		for _, u := range m.users {
			if (field == "id" && u.ID == value) || (field == "email" && u.Email == value) {
				*t = u
				return nil
			}
		}
	case *ProfileEntity:
		if p, ok := m.profiles[value.(string)]; ok {
			*t = p
			return nil
		}
	default:
		return fmt.Errorf("unsupported target %T", target)
	}
	return ErrNotFound
}

func (m *memoryRepository) GetOneByID(ctx context.Context, target any, id any) error {
	return m.GetOneByField(ctx, target, "id", id)
}

func (m *memoryRepository) Create(_ context.Context, target any) error {
	u, ok := target.(*UserEntity)
	if !ok {
		return fmt.Errorf("unsupported target %T", target)
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("error: %w", gorm.ErrDuplicatedKey)
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memoryRepository) Save(_ context.Context, target any) error {
	u, ok := target.(*UserEntity)
	if !ok {
		return fmt.Errorf("unsupported target %T", target)
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memoryRepository) Upsert(_ context.Context, target any, onConflict clause.OnConflict) error {
	p, ok := target.(*ProfileEntity)
	if !ok {
		return fmt.Errorf("unsupported target %T", target)
	}
	existing, found := m.profiles[p.SubjectID]
	if !found {
		m.profiles[p.SubjectID] = *p
		return nil
	}
	for _, assignment := range onConflict.DoUpdates {
		switch assignment.Column.Name {
		case "gender":
			existing.Gender = p.Gender
		case "height":
			existing.Height = p.Height
		case "weight":
			existing.Weight = p.Weight
		case "age":
			existing.Age = p.Age
		}
	}
	m.profiles[p.SubjectID] = existing
	return nil
}

func (m *memoryRepository) DeleteWhere(_ context.Context, _ any, _ string, args ...any) (int64, error) {
	id := args[0].(string)
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

func (m *memoryRepository) DB() *gorm.DB { return nil }

func (m *memoryRepository) HandleError(context.Context, *gorm.DB, trace.Span) error { return nil }

func (m *memoryRepository) HandleOneError(context.Context, *gorm.DB, trace.Span) error { return nil }

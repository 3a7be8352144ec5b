package therapies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func validCreate() CreateRequest {
	return CreateRequest{
		Name:            "Quiromasaje",
		Description:     "Masaje descontracturante de espalda",
		Category:        CategoryRelaxing,
		Price:           ptr(45.0),
		DurationMinutes: ptr(60),
		MassageKind:     "Descontracturante",
	}
}

func TestCreateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr bool
	}{
		{"valid", func(r *CreateRequest) {}, false},
		{"free therapy allowed", func(r *CreateRequest) { r.Price = ptr(0.0) }, false},
		{"missing name", func(r *CreateRequest) { r.Name = "" }, true},
		{"missing description", func(r *CreateRequest) { r.Description = "" }, true},
		{"unknown category", func(r *CreateRequest) { r.Category = "spa" }, true},
		{"missing price", func(r *CreateRequest) { r.Price = nil }, true},
		{"negative price", func(r *CreateRequest) { r.Price = ptr(-1.0) }, true},
		{"missing duration", func(r *CreateRequest) { r.DurationMinutes = nil }, true},
		{"duration too short", func(r *CreateRequest) { r.DurationMinutes = ptr(10) }, true},
		{"duration too long", func(r *CreateRequest) { r.DurationMinutes = ptr(240) }, true},
		{"duration at bounds", func(r *CreateRequest) { r.DurationMinutes = ptr(180) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateRequestValidate(t *testing.T) {
	t.Run("empty update rejected", func(t *testing.T) {
		var req UpdateRequest
		assert.ErrorIs(t, req.Validate(), ErrValidation)
	})

	t.Run("single field accepted", func(t *testing.T) {
		req := UpdateRequest{Price: ptr(30.0)}
		assert.NoError(t, req.Validate())
	})

	t.Run("bad values rejected", func(t *testing.T) {
		assert.ErrorIs(t, (&UpdateRequest{Price: ptr(-5.0)}).Validate(), ErrValidation)
		assert.ErrorIs(t, (&UpdateRequest{DurationMinutes: ptr(5)}).Validate(), ErrValidation)
		assert.ErrorIs(t, (&UpdateRequest{Category: ptr(Category("spa"))}).Validate(), ErrValidation)
	})
}

func TestApplyCategoryGates(t *testing.T) {
	t.Run("relaxing keeps massage kind, drops body zone", func(t *testing.T) {
		th := &Therapy{Category: CategoryRelaxing, MassageKind: "Relajante", BodyZone: "Espalda"}
		applyCategoryGates(th)
		assert.Equal(t, "Relajante", th.MassageKind)
		assert.Empty(t, th.BodyZone)
	})

	t.Run("therapeutic keeps body zone, drops massage kind", func(t *testing.T) {
		th := &Therapy{Category: CategoryTherapeutic, MassageKind: "Relajante", BodyZone: "Espalda"}
		applyCategoryGates(th)
		assert.Empty(t, th.MassageKind)
		assert.Equal(t, "Espalda", th.BodyZone)
	})

	t.Run("fitness drops both", func(t *testing.T) {
		th := &Therapy{Category: CategoryFitness, MassageKind: "Relajante", BodyZone: "Espalda"}
		applyCategoryGates(th)
		assert.Empty(t, th.MassageKind)
		assert.Empty(t, th.BodyZone)
	})
}

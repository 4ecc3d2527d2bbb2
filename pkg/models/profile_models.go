package models

// Profile is the per-user settings document keyed by subject id
// @model Profile
type Profile struct {
	// @example "female"
	Gender string `json:"gender" firestore:"gender" example:"female"`
	// @Description Height in centimetres
	// @example 168.5
	Height float64 `json:"height" firestore:"height" example:"168.5"`
	// @Description Weight in kilograms
	// @example 60.2
	Weight float64 `json:"weight" firestore:"weight" example:"60.2"`
	// @example 29
	Age int `json:"age" firestore:"age" example:"29"`
}

// ProfileUpdate is a partial profile; nil fields keep their stored value
type ProfileUpdate struct {
	Gender *string  `json:"gender,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	Age    *int     `json:"age,omitempty"`
}

// IsEmpty reports whether the update carries no field at all
func (u ProfileUpdate) IsEmpty() bool {
	return u.Gender == nil && u.Height == nil && u.Weight == nil && u.Age == nil
}

// Fields returns the supplied fields keyed by their stored name
func (u ProfileUpdate) Fields() map[string]any {
	fields := make(map[string]any, 4)
	if u.Gender != nil {
		fields["gender"] = *u.Gender
	}
	if u.Height != nil {
		fields["height"] = *u.Height
	}
	if u.Weight != nil {
		fields["weight"] = *u.Weight
	}
	if u.Age != nil {
		fields["age"] = *u.Age
	}
	return fields
}

// Apply merges the supplied fields into p
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Height != nil {
		p.Height = *u.Height
	}
	if u.Weight != nil {
		p.Weight = *u.Weight
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
}

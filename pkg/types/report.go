package types

// Status pairs a stable code with its localized message.
type Status struct {
	Code    StatusCode `json:"code"`
	Message string     `json:"message"`
}

// Change records one value resolution: the descriptor under which the
// original value was rewritten and the canonical value that replaced it.
type Change struct {
	Field    string      `json:"field"`
	Original interface{} `json:"original"`
	Resolved interface{} `json:"resolved"`
}

// Slot is one entry of a validation report, corresponding to one logical
// input: a single value, one element of a zipped list, or one object of
// a bag.
type Slot struct {
	Status Status `json:"status"`
	// Descriptor is the term key the slot was validated against; empty
	// when not applicable
	Descriptor string `json:"descriptor,omitempty"`
	// Value is the offending value; absent while the slot is idle
	Value interface{} `json:"value,omitempty"`
	// Changes maps a stable digest of (descriptor, original value) to
	// the resolution that was applied
	Changes map[string]Change `json:"changes,omitempty"`

	// Optional attachments
	Section     interface{} `json:"section,omitempty"`
	Regexp      string      `json:"regexp,omitempty"`
	ParentValue interface{} `json:"parentValue,omitempty"`
}

// OK reports whether the slot is idle or valid.
func (s *Slot) OK() bool {
	return s != nil && s.Status.Code == StatusOK
}

// NewIdleSlot returns a fresh slot with the idle status localized for
// the given language.
func NewIdleSlot(language string) *Slot {
	return &Slot{
		Status: Status{
			Code:    StatusOK,
			Message: StatusMessage(StatusOK, language),
		},
	}
}

// Report is the outcome of one validation run: a single slot for single
// value and object modes, or one slot per input element for zipped and
// bag modes.
type Report struct {
	Slot  *Slot   `json:"slot,omitempty"`
	Slots []*Slot `json:"slots,omitempty"`
}

// Valid reports whether every slot of the report is idle or valid.
func (r *Report) Valid() bool {
	if r == nil {
		return true
	}
	if r.Slot != nil && !r.Slot.OK() {
		return false
	}
	for _, s := range r.Slots {
		if !s.OK() {
			return false
		}
	}
	return true
}

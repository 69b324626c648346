package validator

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// statusExtras carries the optional attachments of an error slot.
type statusExtras struct {
	section interface{}
	regexp  string
	parent  interface{}
}

// setStatus constructs a fresh slot for code and writes it into the
// report: into the indexed sequence when idx addresses a slot, into the
// single-slot field otherwise. Resolutions already logged on the slot
// carry over: a substitution was applied to the value whether or not a
// later check fails. Returns true iff the resulting code is OK.
func (v *Validator) setStatus(code types.StatusCode, descriptor string, value interface{}, idx int, extras *statusExtras) bool {
	slot := &types.Slot{
		Status: types.Status{
			Code:    code,
			Message: types.StatusMessage(code, v.language),
		},
		Descriptor: descriptor,
	}
	if previous := v.slotAt(idx); previous != nil {
		slot.Changes = previous.Changes
	}
	if code != types.StatusOK {
		slot.Value = value
	}
	if extras != nil {
		slot.Section = extras.section
		slot.Regexp = extras.regexp
		slot.ParentValue = extras.parent
	}
	v.putSlot(idx, slot)
	return code == types.StatusOK
}

// logResolution records a value substitution on the current slot,
// keyed by the digest of the descriptor and the original value.
// Idempotent for duplicate descriptor/value pairs.
func (v *Validator) logResolution(descriptor string, original, resolved interface{}, idx int) {
	slot := v.slotAt(idx)
	if slot == nil {
		slot = types.NewIdleSlot(v.language)
		v.putSlot(idx, slot)
	}
	if slot.Changes == nil {
		slot.Changes = make(map[string]types.Change)
	}
	slot.Changes[ResolutionDigest(descriptor, original)] = types.Change{
		Field:    descriptor,
		Original: original,
		Resolved: resolved,
	}
	v.logger.Info("Value resolved",
		zap.String("descriptor", descriptor),
		zap.Any("original", original),
		zap.Any("resolved", resolved))
}

// ResolutionDigest computes the stable 128-bit digest keying a
// resolution log entry: the MD5 of the descriptor and the serialized
// original value.
func ResolutionDigest(descriptor string, original interface{}) string {
	serialized, err := json.Marshal(original)
	if err != nil {
		serialized = []byte("?")
	}
	sum := md5.Sum(append([]byte(descriptor+":"), serialized...))
	return hex.EncodeToString(sum[:])
}

// slotAt returns the slot idx addresses, or nil when it does not exist
// yet.
func (v *Validator) slotAt(idx int) *types.Slot {
	if idx == slotSingle {
		return v.Report.Slot
	}
	if idx >= 0 && idx < len(v.Report.Slots) {
		return v.Report.Slots[idx]
	}
	return nil
}

func (v *Validator) putSlot(idx int, slot *types.Slot) {
	if idx == slotSingle {
		v.Report.Slot = slot
		return
	}
	if idx >= 0 && idx < len(v.Report.Slots) {
		v.Report.Slots[idx] = slot
	}
}

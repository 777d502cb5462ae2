package model

// Slot is a named image placement on a cluster, mapped 1:1 to a CMS field.
type Slot string

const (
	SlotLogo       Slot = "logo-1-1"
	SlotBannerWide Slot = "banner-16-9"
	SlotBannerTall Slot = "banner-9-16"
)

// slotFields maps each slot to the CMS field that stores its hosted URL.
var slotFields = map[Slot]string{
	SlotLogo:       "1-1-cluster-logo-image-link",
	SlotBannerWide: "16-9-banner-image-link",
	SlotBannerTall: "9-16-banner-image-link",
}

// ParseSlot validates an image type query value against the known slots.
func ParseSlot(s string) (Slot, bool) {
	slot := Slot(s)
	_, ok := slotFields[slot]
	return slot, ok
}

// CMSField returns the CMS field slug backing the slot.
func (s Slot) CMSField() string {
	return slotFields[s]
}

// String implements fmt.Stringer.
func (s Slot) String() string {
	return string(s)
}

// Slots lists all known slots.
func Slots() []Slot {
	return []Slot{SlotLogo, SlotBannerWide, SlotBannerTall}
}

// AssetRef identifies the remote asset currently backing one slot. The CMS
// item field only stores a URL; deletes require the asset id, so the pair is
// tracked in the asset index document.
type AssetRef struct {
	AssetID string `json:"assetId" bson:"assetId"`
	URL     string `json:"url" bson:"url"`
}

// AssetIndex is the per-cluster side document mapping slot to asset ref.
type AssetIndex map[Slot]AssetRef

// UploadResult is returned by the upload pipeline on success.
type UploadResult struct {
	URL  string
	Item *Item
}

package stock

// itemCodeWidth is the fixed width of a top-level product code in the
// ERP. Anything longer addresses an option, whose owning item is the
// leading prefix. This must match the ERP's code format exactly.
const itemCodeWidth = 10

type CodeKind int

const (
	KindItem CodeKind = iota
	KindOption
)

// Code is a classified stock code. For options, ItemID is the leading
// fixed-width prefix and OptionID is the full code.
type Code struct {
	Kind     CodeKind
	ItemID   string
	OptionID string
}

// ParseCode classifies an ERP product code as an item or option code.
func ParseCode(code string) Code {
	if len(code) > itemCodeWidth {
		return Code{
			Kind:     KindOption,
			ItemID:   code[:itemCodeWidth],
			OptionID: code,
		}
	}
	return Code{
		Kind:   KindItem,
		ItemID: code,
	}
}

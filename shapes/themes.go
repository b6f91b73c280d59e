package shapes

import "github.com/pthm-cable/neuralmorph/components"

// DefaultThemes returns the built-in palette, one theme per shape in Names order.
func DefaultThemes() []components.Theme {
	return []components.Theme{
		{Name: string(Bitcoin), Label: "Bitcoin", Primary: components.MustParseHex("#F7931A"), Secondary: components.MustParseHex("#FFAE42")},
		{Name: string(Ethereum), Label: "Ethereum", Primary: components.MustParseHex("#627EEA"), Secondary: components.MustParseHex("#8A9EFF")},
		{Name: string(Gold), Label: "PAX Gold", Primary: components.MustParseHex("#D4AF37"), Secondary: components.MustParseHex("#FFD700")},
		{Name: string(Security), Label: "Cybersecurity", Primary: components.MustParseHex("#46A049"), Secondary: components.MustParseHex("#6EC071")},
		{Name: string(Messaging), Label: "Messaging", Primary: components.MustParseHex("#1DA1F2"), Secondary: components.MustParseHex("#69C4FF")},
		{Name: string(ERP), Label: "ERP", Primary: components.MustParseHex("#9C27B0"), Secondary: components.MustParseHex("#CE93D8")},
	}
}

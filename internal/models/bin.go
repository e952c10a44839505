package models

import "fmt"

// BinType is the disposal destination an item is routed to.
type BinType string

const (
	BinYellow        BinType = "YELLOW"
	BinGlass         BinType = "GLASS"
	BinGeneral       BinType = "GENERAL"
	BinCompost       BinType = "COMPOST"
	BinDropOffCenter BinType = "DROP_OFF_CENTER"
	BinTakeBackPoint BinType = "TAKE_BACK_POINT"
)

var AllBins = []BinType{BinYellow, BinGlass, BinGeneral, BinCompost, BinDropOffCenter, BinTakeBackPoint}

type BinInfo struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Desc  string `json:"desc"`
}

var binInfos = map[BinType]BinInfo{
	BinYellow:        {Label: "Yellow Bin", Icon: "🟡", Desc: "Packaging, plastics & paper"},
	BinGlass:         {Label: "Glass Bin", Icon: "🟢", Desc: "Bottles, jars & flasks"},
	BinGeneral:       {Label: "General Waste", Icon: "⚫", Desc: "Non-recyclable household waste"},
	BinCompost:       {Label: "Compost", Icon: "🟤", Desc: "Food & garden waste"},
	BinDropOffCenter: {Label: "Drop-off Center", Icon: "🔵", Desc: "Bulky, rubble & hazardous items"},
	BinTakeBackPoint: {Label: "Take-back Point", Icon: "🟣", Desc: "Batteries, bulbs, textiles (supermarkets)"},
}

// Info returns display metadata for the bin, falling back to general waste
// for unknown values so rendering never breaks.
func (b BinType) Info() BinInfo {
	if info, ok := binInfos[b]; ok {
		return info
	}
	return binInfos[BinGeneral]
}

func (b BinType) Valid() bool {
	_, ok := binInfos[b]
	return ok
}

// ParseBinType validates a bin name coming from the LLM or a client.
func ParseBinType(s string) (BinType, error) {
	b := BinType(s)
	if !b.Valid() {
		return "", fmt.Errorf("unknown bin type %q", s)
	}
	return b, nil
}

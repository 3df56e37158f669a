package topas

import (
	"fmt"
	"strings"

	"custommlc/internal/models"
	"custommlc/pkg/config"
)

const (
	materialsBanner  = "#==========================MATERIALS==========================#"
	mlcGroupBanner   = "#=================MLC GROUP===============#"
	placementBanner  = "#===============PLACEMENT GROUP=============#"
	componentsBanner = "#===================COMPONENTS===============#"

	// leaf parameter lines align '=' as if the leaf index were absent
	leafKeyColumn = 31
)

// Materials is the leaf material composition
var Materials = Block{
	Banner: materialsBanner,
	Fields: []Field{
		{Type: "sv", Key: "Ma/LeafMaterial/Components", Sep: "   ", Value: `3 "Tungsten" "Nickel" "Iron"`},
		{Type: "uv", Key: "Ma/LeafMaterial/Fractions", Sep: " \t", Value: "3 0.95 00.0375 0.0125"},
		{Type: "d", Key: "Ma/LeafMaterial/Density", Sep: "       ", Value: "18", Unit: "g/cm3"},
	},
}

// MLCGroup places the whole collimator along the beam axis
func MLCGroup(transZ float64) Block {
	return Block{
		Banner: mlcGroupBanner,
		Fields: []Field{
			{Type: "s", Key: "Ge/MLCGroup/Type", Sep: "              ", Value: Quote("Group")},
			{Type: "s", Key: "Ge/MLCGroup/Parent", Sep: "        \t", Value: Quote("World")},
			{Type: "d", Key: "Ge/MLCGroup/TransZ", Sep: "            ", Value: Number(transZ), Unit: "cm"},
		},
	}
}

// LeftGroup holds the left bank
func LeftGroup(topEdgeOffset float64) Block {
	return Block{
		Banner: placementBanner,
		Fields: []Field{
			{Type: "s", Key: "Ge/LeftGroup/Type", Sep: " \t    \t", Value: Quote("Group")},
			{Type: "s", Key: "Ge/LeftGroup/Parent", Sep: "       \t", Value: Quote("MLCGroup")},
			{Type: "d", Key: "Ge/LeftGroup/RotX", Sep: "             ", Value: "180", Unit: "deg"},
			{Type: "d", Key: "Ge/LeftGroup/TransZ", Sep: "\t    \t", Value: Number(topEdgeOffset), Unit: "mm"},
		},
	}
}

// RightGroup holds the right bank, turned by 180 degrees about y
func RightGroup(topEdgeOffset float64) Block {
	return Block{
		Fields: []Field{
			{Type: "s", Key: "Ge/RightGroup/Type", Sep: "        \t", Value: Quote("Group")},
			{Type: "s", Key: "Ge/RightGroup/Parent", Sep: " \t    \t", Value: Quote("MLCGroup")},
			{Type: "d", Key: "Ge/RightGroup/RotY", Sep: " \t    \t", Value: "180", Unit: "deg"},
			{Type: "d", Key: "Ge/RightGroup/TransZ", Sep: "\t    \t", Value: Number(topEdgeOffset), Unit: "mm"},
		},
	}
}

// LeafBlock lists the parameters of one leaf, written under the name
// <Bank>Leaf<index>
func LeafBlock(leaf models.LeafPlacement, index int) Block {
	component := leaf.Bank.String() + "Leaf"
	field := func(typ, param, value, unit string) Field {
		pad := leafKeyColumn - len(typ) - len(":Ge/"+component+"/"+param)
		return Field{
			Type:  typ,
			Key:   fmt.Sprintf("Ge/%s%d/%s", component, index, param),
			Sep:   strings.Repeat(" ", max(pad, 1)),
			Value: value,
			Unit:  unit,
		}
	}

	format := field("s", "FileFormat", Quote("stl"), "")
	if leaf.Bank == models.LeftBank {
		format.Trailing = " "
	}

	return Block{
		Fields: []Field{
			field("s", "Type", Quote("TsCAD"), ""),
			field("s", "Parent", Quote(leaf.Bank.String()+"Group"), ""),
			field("s", "Material", Quote(leaf.Material), ""),
			field("d", "TransX", Number(leaf.Trans.X), "mm"),
			field("d", "TransY", Number(leaf.Trans.Y), "mm"),
			field("d", "TransZ", Number(leaf.Trans.Z), "cm"),
			field("d", "RotX", Number(leaf.RotX), "deg"),
			field("s", "DrawingStyle", Quote("Solid"), ""),
			field("s", "InputFile", Quote(leaf.InputFile), ""),
			format,
			field("d", "Units", "1", "mm"),
			field("s", "Color", Quote(leaf.Color), ""),
		},
	}
}

// Document lists every block of the simulation file in output order: the
// materials, the group transforms, then a left and a right leaf per index.
// Leaf i of the right bank is the layout slot facing left leaf i.
func Document(layout models.Layout, dev config.Device) []Block {
	n := layout.Pairs()
	blocks := make([]Block, 0, 5+2*n)
	blocks = append(blocks,
		Materials,
		MLCGroup(dev.MLCTransZ),
		LeftGroup(dev.TopEdgeOffset),
		RightGroup(dev.TopEdgeOffset),
		Block{Banner: componentsBanner},
	)
	for i := 0; i < n; i++ {
		blocks = append(blocks,
			LeafBlock(layout.Left[i], i),
			LeafBlock(layout.Right[n-1-i], i),
		)
	}
	return blocks
}

// Serialize renders the simulation file for a layout
func Serialize(layout models.Layout, dev config.Device) string {
	return Render(Document(layout, dev))
}

package handlers

import "github.com/gaspardpetit/edabridge/internal/cad"

// Components covers PCB footprints.
func Components(api cad.API) Partial {
	return Partial{Name: "component", Handlers: map[string]Func{
		"pcb.getAll.component":  forward(api, "pcb_PrimitiveComponent.getAll", "layer"),
		"pcb.modify.component":  forward(api, "pcb_PrimitiveComponent.modify", "primitiveId", "property"),
		"pcb.component.getPins": forward(api, "pcb_PrimitiveComponent.getAllPinsByPrimitiveId", "primitiveId"),
		"pcb.delete.component":  forward(api, "pcb_PrimitiveComponent.delete", "ids"),
	}}
}

// Documents covers the board document, pads and selection.
func Documents(api cad.API) Partial {
	return Partial{Name: "document", Handlers: map[string]Func{
		"pcb.document.save":       forward(api, "pcb_Document.save", "uuid"),
		"pcb.document.navigateTo": forward(api, "pcb_Document.navigateToCoordinates", "x", "y"),
		"pcb.getAll.pad":          forward(api, "pcb_PrimitivePad.getAll", "layer", "net"),
		"pcb.create.pad":          forward(api, "pcb_PrimitivePad.create", "layer", "padNumber", "x", "y", "rotation", "net"),
		"pcb.modify.pad":          forward(api, "pcb_PrimitivePad.modify", "primitiveId", "property"),
		"pcb.delete.pad":          forward(api, "pcb_PrimitivePad.delete", "ids"),
		"pcb.select.getAll":       forward(api, "pcb_SelectControl.getAllSelectedPrimitives"),
	}}
}

// DRC covers design rule checks and rule inspection.
func DRC(api cad.API) Partial {
	return Partial{Name: "drc", Handlers: map[string]Func{
		"pcb.drc.check":                forward(api, "pcb_Drc.check", "strict", "ui", "verbose"),
		"pcb.drc.getRuleConfiguration": forward(api, "pcb_Drc.getCurrentRuleConfiguration"),
		"pcb.drc.getNetRules":          forward(api, "pcb_Drc.getNetRules"),
		"pcb.drc.getDiffPairs":         forward(api, "pcb_Drc.getAllDifferentialPairs"),
		"pcb.drc.getEqualLengthGroups": forward(api, "pcb_Drc.getAllEqualLengthNetGroups"),
	}}
}

// Nets covers net queries and highlighting.
func Nets(api cad.API) Partial {
	return Partial{Name: "net", Handlers: map[string]Func{
		"pcb.net.getAllNames":   forward(api, "pcb_Net.getAllNetsName"),
		"pcb.net.getPrimitives": forward(api, "pcb_Net.getAllPrimitivesByNet", "net", "types"),
		"pcb.net.getLength":     forward(api, "pcb_Net.getNetLength", "net"),
		"pcb.net.highlight":     forward(api, "pcb_Net.highlightNet", "net"),
		"pcb.net.select":        forward(api, "pcb_Net.selectNet", "net"),
	}}
}

// Primitives covers arcs and regions.
func Primitives(api cad.API) Partial {
	return Partial{Name: "pcb-primitive", Handlers: map[string]Func{
		"pcb.getAll.arc": forward(api, "pcb_PrimitiveArc.getAll", "net", "layer", "primitiveLock"),
		"pcb.get.arc":    forward(api, "pcb_PrimitiveArc.get", "primitiveIds"),
		"pcb.create.arc": forward(api, "pcb_PrimitiveArc.create",
			"net", "layer", "startX", "startY", "endX", "endY", "arcAngle", "lineWidth", "interactiveMode", "primitiveLock"),
		"pcb.modify.arc": forward(api, "pcb_PrimitiveArc.modify", "primitiveId", "property"),
		"pcb.delete.arc": forward(api, "pcb_PrimitiveArc.delete", "ids"),

		"pcb.getAll.region": forward(api, "pcb_PrimitiveRegion.getAll", "layer", "ruleType", "primitiveLock"),
		"pcb.get.region":    forward(api, "pcb_PrimitiveRegion.get", "primitiveIds"),
		"pcb.create.region": withPolygon(api, "pcb_PrimitiveRegion.create",
			"layer", "polygon", "ruleType", "regionName", "lineWidth", "primitiveLock"),
		"pcb.modify.region": forward(api, "pcb_PrimitiveRegion.modify", "primitiveId", "property"),
		"pcb.delete.region": forward(api, "pcb_PrimitiveRegion.delete", "ids"),
	}}
}

// Pours covers copper pours and fills.
func Pours(api cad.API) Partial {
	return Partial{Name: "pour-fill", Handlers: map[string]Func{
		"pcb.getAll.pour": forward(api, "pcb_PrimitivePour.getAll", "net", "layer", "primitiveLock"),
		"pcb.get.pour":    forward(api, "pcb_PrimitivePour.get", "primitiveIds"),
		"pcb.create.pour": withPolygon(api, "pcb_PrimitivePour.create",
			"net", "layer", "polygon", "pourFillMethod", "preserveSilos", "pourName", "pourPriority", "lineWidth", "primitiveLock"),
		"pcb.modify.pour": forward(api, "pcb_PrimitivePour.modify", "primitiveId", "property"),
		"pcb.delete.pour": forward(api, "pcb_PrimitivePour.delete", "ids"),

		"pcb.getAll.fill": forward(api, "pcb_PrimitiveFill.getAll", "layer", "net", "primitiveLock"),
		"pcb.get.fill":    forward(api, "pcb_PrimitiveFill.get", "primitiveIds"),
		"pcb.create.fill": withPolygon(api, "pcb_PrimitiveFill.create",
			"layer", "polygon", "net", "fillMode", "lineWidth", "primitiveLock"),
		"pcb.modify.fill": forward(api, "pcb_PrimitiveFill.modify", "primitiveId", "property"),
		"pcb.delete.fill": forward(api, "pcb_PrimitiveFill.delete", "ids"),
	}}
}

// Tracks covers lines and polylines.
func Tracks(api cad.API) Partial {
	return Partial{Name: "track", Handlers: map[string]Func{
		"pcb.getAll.line": forward(api, "pcb_PrimitiveLine.getAll", "net", "layer"),
		"pcb.create.line": forward(api, "pcb_PrimitiveLine.create",
			"net", "layer", "startX", "startY", "endX", "endY", "lineWidth"),
		"pcb.modify.line": forward(api, "pcb_PrimitiveLine.modify", "primitiveId", "property"),
		"pcb.delete.line": forward(api, "pcb_PrimitiveLine.delete", "ids"),

		"pcb.getAll.polyline": forward(api, "pcb_PrimitivePolyline.getAll", "net", "layer"),
		"pcb.create.polyline": forward(api, "pcb_PrimitivePolyline.create", "net", "layer", "polygon", "lineWidth"),
		"pcb.modify.polyline": forward(api, "pcb_PrimitivePolyline.modify", "primitiveId", "property"),
		"pcb.delete.polyline": forward(api, "pcb_PrimitivePolyline.delete", "ids"),
	}}
}

func Vias(api cad.API) Partial {
	return Partial{Name: "via", Handlers: map[string]Func{
		"pcb.getAll.via": forward(api, "pcb_PrimitiveVia.getAll", "net"),
		"pcb.create.via": forward(api, "pcb_PrimitiveVia.create", "net", "x", "y", "holeDiameter", "diameter", "viaType"),
		"pcb.modify.via": forward(api, "pcb_PrimitiveVia.modify", "primitiveId", "property"),
		"pcb.delete.via": forward(api, "pcb_PrimitiveVia.delete", "ids"),
	}}
}

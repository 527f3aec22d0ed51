package handlers

import "github.com/gaspardpetit/edabridge/internal/cad"

func SchematicComponents(api cad.API) Partial {
	return Partial{Name: "sch-component", Handlers: map[string]Func{
		"sch.component.create": forward(api, "sch_PrimitiveComponent.create",
			"component", "x", "y", "subPartName", "rotation", "mirror", "addIntoBom", "addIntoPcb"),
		"sch.component.createNetFlag": forward(api, "sch_PrimitiveComponent.createNetFlag",
			"identification", "net", "x", "y", "rotation", "mirror"),
		"sch.component.createNetPort": forward(api, "sch_PrimitiveComponent.createNetPort",
			"direction", "net", "x", "y", "rotation", "mirror"),
		"sch.component.delete":     forward(api, "sch_PrimitiveComponent.delete", "ids"),
		"sch.component.modify":     forward(api, "sch_PrimitiveComponent.modify", "primitiveId", "property"),
		"sch.component.get":        forward(api, "sch_PrimitiveComponent.get", "primitiveIds"),
		"sch.component.getAll":     forward(api, "sch_PrimitiveComponent.getAll", "componentType", "allSchematicPages"),
		"sch.component.getAllPins": forward(api, "sch_PrimitiveComponent.getAllPinsByPrimitiveId", "primitiveId"),
	}}
}

func SchematicDocuments(api cad.API) Partial {
	return Partial{Name: "sch-document", Handlers: map[string]Func{
		"sch.document.save":          forward(api, "sch_Document.save"),
		"sch.document.importChanges": forward(api, "sch_Document.importChanges"),
		"sch.drc.check":              forward(api, "sch_Drc.check", "strict", "userInterface"),
		"sch.netlist.get":            forward(api, "sch_Netlist.getNetlist", "type"),
		"sch.netlist.set":            forward(api, "sch_Netlist.setNetlist", "type", "netlist"),
	}}
}

func SchematicPrimitives(api cad.API) Partial {
	return Partial{Name: "sch-primitive", Handlers: map[string]Func{
		"sch.primitive.getType": forward(api, "sch_Primitive.getPrimitiveTypeByPrimitiveId", "id"),
		"sch.primitive.get":     forward(api, "sch_Primitive.getPrimitiveByPrimitiveId", "id"),
		"sch.primitive.getBBox": forward(api, "sch_Primitive.getPrimitivesBBox", "primitiveIds"),
	}}
}

func SchematicSelection(api cad.API) Partial {
	return Partial{Name: "sch-select", Handlers: map[string]Func{
		"sch.select.getAll":    forward(api, "sch_SelectControl.getAllSelectedPrimitives"),
		"sch.select.getAllIds": forward(api, "sch_SelectControl.getAllSelectedPrimitives_PrimitiveId"),
		"sch.select.select":    forward(api, "sch_SelectControl.doSelectPrimitives", "primitiveIds"),
		"sch.select.crossProbe": forward(api, "sch_SelectControl.doCrossProbeSelect",
			"components", "pins", "nets", "highlight", "select"),
		"sch.select.clear": forward(api, "sch_SelectControl.clearSelected"),
	}}
}

func SchematicWires(api cad.API) Partial {
	return Partial{Name: "sch-wire", Handlers: map[string]Func{
		"sch.wire.create": forward(api, "sch_PrimitiveWire.create", "line", "net", "color", "lineWidth", "lineType"),
		"sch.wire.delete": forward(api, "sch_PrimitiveWire.delete", "ids"),
		"sch.wire.modify": forward(api, "sch_PrimitiveWire.modify", "primitiveId", "property"),
		"sch.wire.get":    forward(api, "sch_PrimitiveWire.get", "primitiveIds"),
		"sch.wire.getAll": forward(api, "sch_PrimitiveWire.getAll", "net"),
	}}
}

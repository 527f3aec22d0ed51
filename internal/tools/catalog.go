package tools

// Catalog lists every tool the bridge exposes.
func Catalog() []Spec {
	var specs []Spec
	specs = append(specs, boardTools...)
	specs = append(specs, inspectTools...)
	specs = append(specs, editsTools...)
	specs = append(specs, rulesTools...)
	specs = append(specs, schReadTools...)
	specs = append(specs, schEditsTools...)
	specs = append(specs, libraryTools...)
	specs = append(specs, editorTools...)
	return specs
}

// Board queries.
var boardTools = []Spec{
	{
		Name:        "pcb_get_all_components",
		Description: "Get all components on the PCB with their positions, rotations, layers, designators and properties",
		Method:      "pcb.getAll.component",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "layer", Type: TypeString, Description: "Filter by layer (e.g. \"TopLayer\", \"BottomLayer\")"},
		},
	},
	{
		Name:        "pcb_get_all_tracks",
		Description: "Get all track segments (lines) on the PCB, optionally filtered by net and layer",
		Method:      "pcb.getAll.line",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "net", Type: TypeString, Description: "Filter by net name"},
			{Name: "layer", Type: TypeString, Description: "Filter by layer"},
		},
	},
	{
		Name:        "pcb_get_all_polyline_tracks",
		Description: "Get all polyline tracks on the PCB, optionally filtered by net and layer",
		Method:      "pcb.getAll.polyline",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "net", Type: TypeString, Description: "Filter by net name"},
			{Name: "layer", Type: TypeString, Description: "Filter by layer"},
		},
	},
	{
		Name:        "pcb_get_all_vias",
		Description: "Get all vias on the PCB, optionally filtered by net",
		Method:      "pcb.getAll.via",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "net", Type: TypeString, Description: "Filter by net name"},
		},
	},
	{
		Name:        "pcb_get_all_pads",
		Description: "Get all pads on the PCB, optionally filtered by layer, net and pad type",
		Method:      "pcb.getAll.pad",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "layer", Type: TypeString, Description: "Filter by layer"},
			{Name: "net", Type: TypeString, Description: "Filter by net name"},
		},
	},
	{
		Name:        "pcb_get_all_nets",
		Description: "Get all net names in the PCB design",
		Method:      "pcb.net.getAllNames",
		ReadOnly:    true,
		Query:       true,
	},
	{
		Name:        "pcb_get_net_primitives",
		Description: "Get all primitives (tracks, pads, vias, etc.) belonging to a specific net",
		Method:      "pcb.net.getPrimitives",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "net", Type: TypeString, Required: true, Description: "The net name to query"},
			{Name: "types", Type: TypeStrings, Description: "Filter by primitive types (e.g. [\"Line\", \"Via\", \"Pad\"])"},
		},
	},
	{
		Name:        "pcb_get_net_length",
		Description: "Get the total routed length of a specific net",
		Method:      "pcb.net.getLength",
		ReadOnly:    true,
		Params: []Param{
			{Name: "net", Type: TypeString, Required: true, Description: "The net name"},
		},
	},
	{
		Name:        "pcb_get_design_rules",
		Description: "Get the current PCB design rule configuration (clearance, width, etc.)",
		Method:      "pcb.drc.getRuleConfiguration",
		ReadOnly:    true,
	},
	{
		Name:        "pcb_get_net_rules",
		Description: "Get net-specific design rules",
		Method:      "pcb.drc.getNetRules",
		ReadOnly:    true,
	},
	{
		Name:        "pcb_get_component_pins",
		Description: "Get all pins/pads of a specific component by its primitive ID",
		Method:      "pcb.component.getPins",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "primitiveId", Type: TypeString, Required: true, Description: "The component primitive ID"},
		},
	},
	{
		Name:        "pcb_run_drc",
		Description: "Run Design Rule Check (DRC) on the PCB. Returns violations if verbose is true, or just pass/fail.",
		Method:      "pcb.drc.check",
		Params: []Param{
			{Name: "strict", Type: TypeBoolean, Default: true, Description: "Whether to run strict DRC checks"},
			{Name: "ui", Type: TypeBoolean, Default: false, Description: "Whether to show DRC results in UI"},
			{Name: "verbose", Type: TypeBoolean, Default: true, Description: "If true, returns detailed violation list"},
		},
	},
	{
		Name:        "pcb_get_selected",
		Description: "Get currently selected primitives in the PCB editor",
		Method:      "pcb.select.getAll",
		ReadOnly:    true,
		Query:       true,
	},
	{
		Name:        "pcb_get_all_arcs",
		Description: "Get all arc tracks on the PCB, optionally filtered by net and layer",
		Method:      "pcb.getAll.arc",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "net", Type: TypeString, Description: "Filter by net name"},
			{Name: "layer", Type: TypeString, Description: "Filter by layer"},
		},
	},
	{
		Name:        "pcb_get_all_pours",
		Description: "Get all copper pours on the PCB, optionally filtered by net and layer",
		Method:      "pcb.getAll.pour",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "net", Type: TypeString, Description: "Filter by net name"},
			{Name: "layer", Type: TypeString, Description: "Filter by layer"},
		},
	},
	{
		Name:        "pcb_get_all_fills",
		Description: "Get all fill regions on the PCB, optionally filtered by layer and net",
		Method:      "pcb.getAll.fill",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "layer", Type: TypeString, Description: "Filter by layer"},
			{Name: "net", Type: TypeString, Description: "Filter by net name"},
		},
	},
	{
		Name:        "pcb_get_all_regions",
		Description: "Get all design rule regions on the PCB, optionally filtered by layer",
		Method:      "pcb.getAll.region",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "layer", Type: TypeString, Description: "Filter by layer"},
		},
	},
}

// Board inspection and navigation.
var inspectTools = []Spec{
	{
		Name:        "pcb_highlight_net",
		Description: "Highlight a specific net in the PCB editor for visual inspection",
		Method:      "pcb.net.highlight",
		Params: []Param{
			{Name: "net", Type: TypeString, Required: true, Description: "Net name to highlight"},
		},
	},
	{
		Name:        "pcb_select_net",
		Description: "Select all primitives of a specific net in the PCB editor",
		Method:      "pcb.net.select",
		Params: []Param{
			{Name: "net", Type: TypeString, Required: true, Description: "Net name to select"},
		},
	},
	{
		Name:        "pcb_navigate_to",
		Description: "Navigate the PCB editor viewport to specific coordinates",
		Method:      "pcb.document.navigateTo",
		Params: []Param{
			{Name: "x", Type: TypeNumber, Required: true, Description: "X coordinate to navigate to"},
			{Name: "y", Type: TypeNumber, Required: true, Description: "Y coordinate to navigate to"},
		},
	},
	{
		Name:        "pcb_get_diff_pairs",
		Description: "Get all differential pair definitions in the PCB design",
		Method:      "pcb.drc.getDiffPairs",
		ReadOnly:    true,
		Query:       true,
	},
	{
		Name:        "pcb_get_equal_length_groups",
		Description: "Get all equal-length net group definitions in the PCB design",
		Method:      "pcb.drc.getEqualLengthGroups",
		ReadOnly:    true,
		Query:       true,
	},
}

// Board edits.
var editsTools = []Spec{
	{
		Name:        "pcb_create_track",
		Description: "Create a single track segment (line) between two points on a specified layer and net",
		Method:      "pcb.create.line",
		Params: []Param{
			{Name: "net", Type: TypeString, Required: true, Description: "Net name for the track"},
			{Name: "layer", Type: TypeString, Required: true, Description: "Layer name (e.g. \"TopLayer\", \"BottomLayer\", \"InnerLayer1\")"},
			{Name: "startX", Type: TypeNumber, Required: true, Description: "Start X coordinate"},
			{Name: "startY", Type: TypeNumber, Required: true, Description: "Start Y coordinate"},
			{Name: "endX", Type: TypeNumber, Required: true, Description: "End X coordinate"},
			{Name: "endY", Type: TypeNumber, Required: true, Description: "End Y coordinate"},
			{Name: "lineWidth", Type: TypeNumber, Description: "Track width (default uses design rules)"},
		},
	},
	{
		Name:        "pcb_create_polyline_track",
		Description: "Create a multi-segment polyline track defined by a series of points",
		Method:      "pcb.create.polyline",
		Params: []Param{
			{Name: "net", Type: TypeString, Required: true, Description: "Net name for the track"},
			{Name: "layer", Type: TypeString, Required: true, Description: "Layer name"},
			{Name: "polygon", Type: TypeArray, Required: true, Description: "Array of points [{x, y}, ...] defining the polyline path"},
			{Name: "lineWidth", Type: TypeNumber, Description: "Track width"},
		},
	},
	{
		Name:        "pcb_create_via",
		Description: "Create a via at the specified position",
		Method:      "pcb.create.via",
		Params: []Param{
			{Name: "net", Type: TypeString, Required: true, Description: "Net name"},
			{Name: "x", Type: TypeNumber, Required: true, Description: "X coordinate"},
			{Name: "y", Type: TypeNumber, Required: true, Description: "Y coordinate"},
			{Name: "holeDiameter", Type: TypeNumber, Required: true, Description: "Hole diameter"},
			{Name: "diameter", Type: TypeNumber, Required: true, Description: "Via pad diameter"},
			{Name: "viaType", Type: TypeString, Description: "Via type (e.g. \"Through\", \"BlindBuried\")"},
		},
	},
	{
		Name:        "pcb_create_arc",
		Description: "Create an arc track segment on the PCB",
		Method:      "pcb.create.arc",
		Params: []Param{
			{Name: "net", Type: TypeString, Required: true, Description: "Net name"},
			{Name: "layer", Type: TypeString, Required: true, Description: "Layer name"},
			{Name: "startX", Type: TypeNumber, Required: true, Description: "Start X coordinate"},
			{Name: "startY", Type: TypeNumber, Required: true, Description: "Start Y coordinate"},
			{Name: "endX", Type: TypeNumber, Required: true, Description: "End X coordinate"},
			{Name: "endY", Type: TypeNumber, Required: true, Description: "End Y coordinate"},
			{Name: "arcAngle", Type: TypeNumber, Required: true, Description: "Arc angle in degrees"},
			{Name: "lineWidth", Type: TypeNumber, Description: "Track width"},
		},
	},
	{
		Name:        "pcb_create_pad",
		Description: "Create a standalone pad on the PCB",
		Method:      "pcb.create.pad",
		Params: []Param{
			{Name: "layer", Type: TypeString, Required: true, Description: "Pad layer"},
			{Name: "padNumber", Type: TypeString, Required: true, Description: "Pad number/name"},
			{Name: "x", Type: TypeNumber, Required: true, Description: "X coordinate"},
			{Name: "y", Type: TypeNumber, Required: true, Description: "Y coordinate"},
			{Name: "rotation", Type: TypeNumber, Description: "Rotation angle in degrees"},
			{Name: "net", Type: TypeString, Description: "Net name"},
		},
	},
	{
		Name:        "pcb_create_pour",
		Description: "Create a copper pour region on the PCB",
		Method:      "pcb.create.pour",
		Params: []Param{
			{Name: "net", Type: TypeString, Required: true, Description: "Net name for the pour"},
			{Name: "layer", Type: TypeString, Required: true, Description: "Layer name"},
			{Name: "polygon", Type: TypeArray, Required: true, Description: "Polygon source array, e.g. [\"L\", x1, y1, x2, y2, ..., x1, y1]"},
			{Name: "pourFillMethod", Type: TypeString, Enum: []string{"solid", "45grid", "90grid"}, Description: "Fill method"},
			{Name: "preserveSilos", Type: TypeBoolean, Description: "Whether to preserve copper islands"},
			{Name: "pourName", Type: TypeString, Description: "Name for the pour region"},
			{Name: "pourPriority", Type: TypeNumber, Description: "Pour priority (higher = poured first)"},
			{Name: "lineWidth", Type: TypeNumber, Description: "Line width"},
		},
	},
	{
		Name:        "pcb_create_fill",
		Description: "Create a fill region on the PCB",
		Method:      "pcb.create.fill",
		Params: []Param{
			{Name: "layer", Type: TypeString, Required: true, Description: "Layer name"},
			{Name: "polygon", Type: TypeArray, Required: true, Description: "Polygon source array, e.g. [\"L\", x1, y1, x2, y2, ..., x1, y1]"},
			{Name: "net", Type: TypeString, Description: "Net name"},
			{Name: "lineWidth", Type: TypeNumber, Description: "Line width"},
		},
	},
	{
		Name:        "pcb_create_region",
		Description: "Create a design rule region (keepout/constraint area) on the PCB",
		Method:      "pcb.create.region",
		Params: []Param{
			{Name: "layer", Type: TypeString, Required: true, Description: "Layer name"},
			{Name: "polygon", Type: TypeArray, Required: true, Description: "Polygon source array, e.g. [\"L\", x1, y1, x2, y2, ..., x1, y1]"},
			{Name: "ruleType", Type: TypeStrings, Description: "Rule type(s) for the region"},
			{Name: "regionName", Type: TypeString, Description: "Name for the region"},
			{Name: "lineWidth", Type: TypeNumber, Description: "Outline width"},
		},
	},
	{
		Name:        "pcb_move_component",
		Description: "Move and/or rotate a component. Can also change its layer (flip), lock status, designator, etc.",
		Method:      "pcb.modify.component",
		Nest:        "property",
		Keep:        []string{"primitiveId"},
		Params: []Param{
			{Name: "primitiveId", Type: TypeString, Required: true, Description: "The component primitive ID"},
			{Name: "x", Type: TypeNumber, Description: "New X coordinate"},
			{Name: "y", Type: TypeNumber, Description: "New Y coordinate"},
			{Name: "rotation", Type: TypeNumber, Description: "New rotation angle in degrees"},
			{Name: "layer", Type: TypeString, Description: "Target layer (\"TopLayer\" or \"BottomLayer\")"},
			{Name: "primitiveLock", Type: TypeBoolean, Description: "Whether to lock the component"},
			{Name: "designator", Type: TypeString, Description: "New designator (e.g. \"R1\", \"U2\")"},
		},
	},
	{
		Name:        "pcb_modify_track",
		Description: "Modify properties of an existing track segment (line)",
		Method:      "pcb.modify.line",
		Nest:        "property",
		Keep:        []string{"primitiveId"},
		Params: []Param{
			{Name: "primitiveId", Type: TypeString, Required: true, Description: "The track primitive ID"},
			{Name: "net", Type: TypeString, Description: "New net name"},
			{Name: "layer", Type: TypeString, Description: "New layer"},
			{Name: "startX", Type: TypeNumber, Description: "New start X"},
			{Name: "startY", Type: TypeNumber, Description: "New start Y"},
			{Name: "endX", Type: TypeNumber, Description: "New end X"},
			{Name: "endY", Type: TypeNumber, Description: "New end Y"},
			{Name: "lineWidth", Type: TypeNumber, Description: "New track width"},
		},
	},
	{
		Name: "pcb_modify_primitive",
		Description: `Modify properties of a PCB primitive. Property keys vary by type:
- via: net, x, y, holeDiameter, diameter, viaType
- polyline: net, layer, lineWidth
- arc: net, layer, startX, startY, endX, endY, arcAngle, lineWidth
- pad: x, y, rotation, net, padNumber, layer
- pour: net, layer, pourFillMethod, preserveSilos, pourName, pourPriority, lineWidth
- fill: layer, net, fillMode, lineWidth
- region: layer, ruleType, regionName, lineWidth
All types support: primitiveLock`,
		Selector: "type",
		Methods: map[string]string{
			"via":      "pcb.modify.via",
			"polyline": "pcb.modify.polyline",
			"arc":      "pcb.modify.arc",
			"pad":      "pcb.modify.pad",
			"pour":     "pcb.modify.pour",
			"fill":     "pcb.modify.fill",
			"region":   "pcb.modify.region",
		},
		Params: []Param{
			{Name: "type", Type: TypeString, Required: true, Enum: []string{"via", "polyline", "arc", "pad", "pour", "fill", "region"}, Description: "Primitive type to modify"},
			{Name: "primitiveId", Type: TypeString, Required: true, Description: "The primitive ID"},
			{Name: "property", Type: TypeObject, Required: true, Description: "Properties to modify (see description for valid keys per type)"},
		},
	},
	{
		Name:        "pcb_delete_primitives",
		Description: "Delete one or more PCB primitives by type and IDs",
		Selector:    "type",
		Methods: map[string]string{
			"component": "pcb.delete.component",
			"track":     "pcb.delete.line",
			"polyline":  "pcb.delete.polyline",
			"via":       "pcb.delete.via",
			"pad":       "pcb.delete.pad",
			"pour":      "pcb.delete.pour",
			"fill":      "pcb.delete.fill",
			"arc":       "pcb.delete.arc",
			"region":    "pcb.delete.region",
		},
		Params: []Param{
			{Name: "type", Type: TypeString, Required: true, Enum: []string{"component", "track", "polyline", "via", "pad", "pour", "fill", "arc", "region"}, Description: "Primitive type to delete"},
			{Name: "ids", Type: TypeStringOrList, Required: true, Description: "Primitive ID(s) to delete"},
		},
	},
	{
		Name:        "pcb_save",
		Description: "Save the current PCB document",
		Method:      "pcb.document.save",
		Params: []Param{
			{Name: "uuid", Type: TypeString, Description: "Document UUID (uses current document if not provided)"},
		},
	},
}

// Design rule management.
var rulesTools = []Spec{
	{
		Name: "pcb_manage_rule_config",
		Description: `Manage DRC rule configurations. Actions:
- get_current_name: get current active config name
- get_by_name: get config by name (configurationName)
- get_all: get all configs (includeSystem optional)
- save: save config (ruleConfiguration, configurationName; allowOverwrite optional)
- rename: rename config (originalName, newName)
- delete: delete config (configurationName)
- get_default_name: get default config name
- set_default: set as default (configurationName)`,
		Selector: "action",
		Methods: map[string]string{
			"get_current_name": "pcb.drc.getCurrentRuleConfigName",
			"get_by_name":      "pcb.drc.getRuleConfigByName",
			"get_all":          "pcb.drc.getAllRuleConfigs",
			"save":             "pcb.drc.saveRuleConfig",
			"rename":           "pcb.drc.renameRuleConfig",
			"delete":           "pcb.drc.deleteRuleConfig",
			"get_default_name": "pcb.drc.getDefaultRuleConfigName",
			"set_default":      "pcb.drc.setAsDefaultRuleConfig",
		},
		Params: []Param{
			{Name: "action", Type: TypeString, Required: true, Enum: []string{"get_current_name", "get_by_name", "get_all", "save", "rename", "delete", "get_default_name", "set_default"}, Description: "Action to perform"},
			{Name: "configurationName", Type: TypeString, Description: "Config name"},
			{Name: "ruleConfiguration", Type: TypeObject, Description: "Rule config object (for save)"},
			{Name: "allowOverwrite", Type: TypeBoolean, Description: "Allow overwrite (for save)"},
			{Name: "includeSystem", Type: TypeBoolean, Description: "Include system configs (for get_all)"},
			{Name: "originalName", Type: TypeString, Description: "Current name (for rename)"},
			{Name: "newName", Type: TypeString, Description: "New name (for rename)"},
		},
	},
	{
		Name: "pcb_manage_net_rules",
		Description: `Manage net-specific design rules. Actions:
- overwrite_net: overwrite net rules (netRules: array of net rule objects)
- get_net_by_net: get net-by-net clearance rules
- overwrite_net_by_net: overwrite net-by-net rules (netByNetRules: object)
- get_region: get region-specific rules
- overwrite_region: overwrite region rules (regionRules: array of region rule objects)`,
		Selector: "action",
		Methods: map[string]string{
			"overwrite_net":        "pcb.drc.overwriteNetRules",
			"get_net_by_net":       "pcb.drc.getNetByNetRules",
			"overwrite_net_by_net": "pcb.drc.overwriteNetByNetRules",
			"get_region":           "pcb.drc.getRegionRules",
			"overwrite_region":     "pcb.drc.overwriteRegionRules",
		},
		Params: []Param{
			{Name: "action", Type: TypeString, Required: true, Enum: []string{"overwrite_net", "get_net_by_net", "overwrite_net_by_net", "get_region", "overwrite_region"}, Description: "Action to perform"},
			{Name: "netRules", Type: TypeArray, Description: "Net rules array (for overwrite_net)"},
			{Name: "netByNetRules", Type: TypeObject, Description: "Net-by-net rules (for overwrite_net_by_net)"},
			{Name: "regionRules", Type: TypeArray, Description: "Region rules array (for overwrite_region)"},
		},
	},
	{
		Name: "pcb_manage_net_classes",
		Description: `Manage net classes. Actions:
- get_all: get all net class definitions
- create: create net class (netClassName, nets: string[]; color optional)
- delete: delete net class (netClassName)
- rename: rename net class (originalName, newName)
- add_net: add net(s) to class (netClassName, net: string|string[])
- remove_net: remove net(s) from class (netClassName, net: string|string[])`,
		Selector: "action",
		Methods: map[string]string{
			"get_all":    "pcb.drc.getAllNetClasses",
			"create":     "pcb.drc.createNetClass",
			"delete":     "pcb.drc.deleteNetClass",
			"rename":     "pcb.drc.modifyNetClassName",
			"add_net":    "pcb.drc.addNetToNetClass",
			"remove_net": "pcb.drc.removeNetFromNetClass",
		},
		Params: []Param{
			{Name: "action", Type: TypeString, Required: true, Enum: []string{"get_all", "create", "delete", "rename", "add_net", "remove_net"}, Description: "Action to perform"},
			{Name: "netClassName", Type: TypeString, Description: "Net class name"},
			{Name: "nets", Type: TypeStrings, Description: "Net names array (for create)"},
			{Name: "net", Type: TypeStringOrList, Description: "Net name(s) (for add_net, remove_net)"},
			{Name: "color", Type: TypeObject, Description: "Color config (for create)"},
			{Name: "originalName", Type: TypeString, Description: "Current name (for rename)"},
			{Name: "newName", Type: TypeString, Description: "New name (for rename)"},
		},
	},
	{
		Name: "pcb_manage_diff_pairs",
		Description: `Manage differential pair definitions. Actions:
- get_all: get all differential pairs
- create: create diff pair (name, positiveNet, negativeNet)
- delete: delete diff pair (name)
- rename: rename diff pair (originalName, newName)
- modify_nets: modify positive/negative net (name, positiveNet and/or negativeNet)`,
		Selector: "action",
		Methods: map[string]string{
			"get_all": "pcb.drc.getDiffPairs",
			"create":  "pcb.drc.createDiffPair",
			"delete":  "pcb.drc.deleteDiffPair",
			"rename":  "pcb.drc.modifyDiffPairName",
		},
		Composite: map[string]CompositeFunc{
			"modify_nets": modifyDiffPairNets,
		},
		Params: []Param{
			{Name: "action", Type: TypeString, Required: true, Enum: []string{"get_all", "create", "delete", "rename", "modify_nets"}, Description: "Action to perform"},
			{Name: "name", Type: TypeString, Description: "Differential pair name"},
			{Name: "positiveNet", Type: TypeString, Description: "Positive signal net"},
			{Name: "negativeNet", Type: TypeString, Description: "Negative signal net"},
			{Name: "originalName", Type: TypeString, Description: "Current name (for rename)"},
			{Name: "newName", Type: TypeString, Description: "New name (for rename)"},
		},
	},
	{
		Name: "pcb_manage_equal_length_groups",
		Description: `Manage equal-length net groups. Actions:
- get_all: get all equal-length groups
- create: create group (name, nets: string[]; color optional)
- delete: delete group (name)
- rename: rename group (originalName, newName)
- add_net: add net(s) to group (name, net: string|string[])
- remove_net: remove net(s) from group (name, net: string|string[])`,
		Selector: "action",
		Methods: map[string]string{
			"get_all":    "pcb.drc.getEqualLengthGroups",
			"create":     "pcb.drc.createEqualLengthGroup",
			"delete":     "pcb.drc.deleteEqualLengthGroup",
			"rename":     "pcb.drc.modifyEqualLengthGroupName",
			"add_net":    "pcb.drc.addNetToEqualLengthGroup",
			"remove_net": "pcb.drc.removeNetFromEqualLengthGroup",
		},
		Params: []Param{
			{Name: "action", Type: TypeString, Required: true, Enum: []string{"get_all", "create", "delete", "rename", "add_net", "remove_net"}, Description: "Action to perform"},
			{Name: "name", Type: TypeString, Description: "Group name"},
			{Name: "nets", Type: TypeStrings, Description: "Net names array (for create)"},
			{Name: "net", Type: TypeStringOrList, Description: "Net name(s) (for add_net, remove_net)"},
			{Name: "color", Type: TypeObject, Description: "Color config (for create)"},
			{Name: "originalName", Type: TypeString, Description: "Current name (for rename)"},
			{Name: "newName", Type: TypeString, Description: "New name (for rename)"},
		},
	},
	{
		Name: "pcb_manage_pad_pair_groups",
		Description: `Manage pad pair groups for length-matching. Actions:
- create: create group (name, padPairs: [[padId1, padId2], ...])
- delete: delete group (name)
- rename: rename group (originalName, newName)`,
		Selector: "action",
		Methods: map[string]string{
			"create": "pcb.drc.createPadPairGroup",
			"delete": "pcb.drc.deletePadPairGroup",
			"rename": "pcb.drc.modifyPadPairGroupName",
		},
		Params: []Param{
			{Name: "action", Type: TypeString, Required: true, Enum: []string{"create", "delete", "rename"}, Description: "Action to perform"},
			{Name: "name", Type: TypeString, Description: "Pad pair group name"},
			{Name: "padPairs", Type: TypeArray, Description: "Pad pair tuples (for create)"},
			{Name: "originalName", Type: TypeString, Description: "Current name (for rename)"},
			{Name: "newName", Type: TypeString, Description: "New name (for rename)"},
		},
	},
}

// Schematic queries.
var schReadTools = []Spec{
	{
		Name:        "sch_get_all_components",
		Description: "Get all components in the schematic with their properties, positions, rotations, designators, etc.",
		Method:      "sch.component.getAll",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "componentType", Type: TypeString, Enum: []string{"part", "sheet", "netflag", "netport", "nonElectrical_symbol", "short_symbol", "netlabel"}, Description: "Filter by component type (e.g. \"part\", \"netflag\", \"netport\")"},
			{Name: "allSchematicPages", Type: TypeBoolean, Description: "If true, get components from all schematic pages instead of just the current page"},
		},
	},
	{
		Name:        "sch_get_component",
		Description: "Get one or more schematic components by primitive ID(s)",
		Method:      "sch.component.get",
		ReadOnly:    true,
		Params: []Param{
			{Name: "primitiveIds", Type: TypeStringOrList, Required: true, Description: "Single primitive ID or array of primitive IDs"},
		},
	},
	{
		Name:        "sch_get_component_pins",
		Description: "Get all pins of a schematic component by its primitive ID",
		Method:      "sch.component.getAllPins",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "primitiveId", Type: TypeString, Required: true, Description: "The component primitive ID"},
		},
	},
	{
		Name:        "sch_get_all_wires",
		Description: "Get all wires in the schematic, optionally filtered by net name",
		Method:      "sch.wire.getAll",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "net", Type: TypeStringOrList, Description: "Filter by net name or array of net names"},
		},
	},
	{
		Name:        "sch_get_wire",
		Description: "Get one or more wires by primitive ID(s)",
		Method:      "sch.wire.get",
		ReadOnly:    true,
		Params: []Param{
			{Name: "primitiveIds", Type: TypeStringOrList, Required: true, Description: "Single primitive ID or array of primitive IDs"},
		},
	},
	{
		Name:        "sch_get_selected",
		Description: "Get all currently selected primitives in the schematic editor",
		Method:      "sch.select.getAll",
		ReadOnly:    true,
		Query:       true,
	},
	{
		Name:        "sch_get_selected_ids",
		Description: "Get primitive IDs of all currently selected primitives in the schematic editor",
		Method:      "sch.select.getAllIds",
		ReadOnly:    true,
	},
	{
		Name:        "sch_get_primitive",
		Description: "Get a schematic primitive by its ID with all properties",
		Method:      "sch.primitive.get",
		ReadOnly:    true,
		Params: []Param{
			{Name: "id", Type: TypeString, Required: true, Description: "The primitive ID"},
		},
	},
	{
		Name:        "sch_get_primitive_type",
		Description: "Get the type of a schematic primitive by its ID",
		Method:      "sch.primitive.getType",
		ReadOnly:    true,
		Params: []Param{
			{Name: "id", Type: TypeString, Required: true, Description: "The primitive ID"},
		},
	},
	{
		Name:        "sch_get_primitive_bbox",
		Description: "Get the bounding box of one or more schematic primitives",
		Method:      "sch.primitive.getBBox",
		ReadOnly:    true,
		Params: []Param{
			{Name: "primitiveIds", Type: TypeStrings, Required: true, Description: "Array of primitive IDs"},
		},
	},
	{
		Name:        "sch_get_netlist",
		Description: "Get the schematic netlist in the specified format",
		Method:      "sch.netlist.get",
		ReadOnly:    true,
		Params: []Param{
			{Name: "type", Type: TypeString, Enum: []string{"Allegro", "PADS", "Protel2", "JLCEDA", "EasyEDA", "DISA"}, Description: "Netlist format type"},
		},
	},
	{
		Name:        "sch_run_drc",
		Description: "Run Design Rule Check (DRC) on the schematic",
		Method:      "sch.drc.check",
		Params: []Param{
			{Name: "strict", Type: TypeBoolean, Description: "Whether to run strict DRC checks"},
			{Name: "userInterface", Type: TypeBoolean, Description: "Whether to show DRC results in UI"},
		},
	},
}

// Schematic edits.
var schEditsTools = []Spec{
	{
		Name:        "sch_create_component",
		Description: "Create a schematic component from a library device reference. Use lib_search_device or lib_get_device first to get the component object.",
		Method:      "sch.component.create",
		Params: []Param{
			{Name: "component", Type: TypeObject, Required: true, Description: "Component object from library search/get (ILIB_DeviceItem or ILIB_DeviceSearchItem), or an object with {deviceUuid, libraryUuid}"},
			{Name: "x", Type: TypeNumber, Required: true, Description: "X coordinate for placement"},
			{Name: "y", Type: TypeNumber, Required: true, Description: "Y coordinate for placement"},
			{Name: "subPartName", Type: TypeString, Description: "Sub-part name for multi-part components"},
			{Name: "rotation", Type: TypeNumber, Description: "Rotation angle in degrees"},
			{Name: "mirror", Type: TypeBoolean, Description: "Whether to mirror the component"},
			{Name: "addIntoBom", Type: TypeBoolean, Description: "Whether to include in BOM (default true)"},
			{Name: "addIntoPcb", Type: TypeBoolean, Description: "Whether to include in PCB (default true)"},
		},
	},
	{
		Name:        "sch_create_net_flag",
		Description: "Create a Power/Ground/AnalogGround/ProtectGround net flag in the schematic",
		Method:      "sch.component.createNetFlag",
		Params: []Param{
			{Name: "identification", Type: TypeString, Required: true, Enum: []string{"Power", "Ground", "AnalogGround", "ProtectGround"}, Description: "Net flag type"},
			{Name: "net", Type: TypeString, Required: true, Description: "Net name (e.g. \"VCC\", \"GND\", \"3V3\")"},
			{Name: "x", Type: TypeNumber, Required: true, Description: "X coordinate"},
			{Name: "y", Type: TypeNumber, Required: true, Description: "Y coordinate"},
			{Name: "rotation", Type: TypeNumber, Description: "Rotation angle in degrees"},
			{Name: "mirror", Type: TypeBoolean, Description: "Whether to mirror"},
		},
	},
	{
		Name:        "sch_create_net_port",
		Description: "Create an IN/OUT/BI directional net port in the schematic",
		Method:      "sch.component.createNetPort",
		Params: []Param{
			{Name: "direction", Type: TypeString, Required: true, Enum: []string{"IN", "OUT", "BI"}, Description: "Port direction"},
			{Name: "net", Type: TypeString, Required: true, Description: "Net name"},
			{Name: "x", Type: TypeNumber, Required: true, Description: "X coordinate"},
			{Name: "y", Type: TypeNumber, Required: true, Description: "Y coordinate"},
			{Name: "rotation", Type: TypeNumber, Description: "Rotation angle in degrees"},
			{Name: "mirror", Type: TypeBoolean, Description: "Whether to mirror"},
		},
	},
	{
		Name:        "sch_delete_component",
		Description: "Delete one or more schematic components by their primitive IDs",
		Method:      "sch.component.delete",
		Params: []Param{
			{Name: "ids", Type: TypeStringOrList, Required: true, Description: "Single primitive ID or array of primitive IDs to delete"},
		},
	},
	{
		Name:        "sch_modify_component",
		Description: "Modify properties of a schematic component (position, rotation, designator, etc.)",
		Method:      "sch.component.modify",
		Nest:        "property",
		Keep:        []string{"primitiveId"},
		Params: []Param{
			{Name: "primitiveId", Type: TypeString, Required: true, Description: "The component primitive ID"},
			{Name: "x", Type: TypeNumber, Description: "New X coordinate"},
			{Name: "y", Type: TypeNumber, Description: "New Y coordinate"},
			{Name: "rotation", Type: TypeNumber, Description: "New rotation angle in degrees"},
			{Name: "mirror", Type: TypeBoolean, Description: "Whether to mirror"},
			{Name: "addIntoBom", Type: TypeBoolean, Description: "Whether to include in BOM"},
			{Name: "addIntoPcb", Type: TypeBoolean, Description: "Whether to include in PCB"},
			{Name: "designator", Type: TypeString, Description: "New designator (e.g. \"R1\", \"U2\")"},
			{Name: "name", Type: TypeString, Description: "New component name"},
			{Name: "uniqueId", Type: TypeString, Description: "New unique ID"},
			{Name: "manufacturer", Type: TypeString, Description: "Manufacturer name"},
			{Name: "manufacturerId", Type: TypeString, Description: "Manufacturer part number"},
			{Name: "supplier", Type: TypeString, Description: "Supplier name"},
			{Name: "supplierId", Type: TypeString, Description: "Supplier part number (e.g. LCSC C-number)"},
		},
	},
	{
		Name:        "sch_create_wire",
		Description: "Create a wire in the schematic defined by a series of coordinate points",
		Method:      "sch.wire.create",
		Params: []Param{
			{Name: "line", Type: TypeArray, Required: true, Description: "Flat array of coordinates [x1,y1,x2,y2,...]"},
			{Name: "net", Type: TypeString, Description: "Net name to assign to the wire"},
			{Name: "color", Type: TypeString, Description: "Wire color (null for default)"},
			{Name: "lineWidth", Type: TypeNumber, Description: "Wire width (null for default)"},
			{Name: "lineType", Type: TypeString, Enum: []string{"0", "1", "2", "3"}, Numeric: true, Description: "Line type: 0=Solid, 1=Dashed, 2=Dotted, 3=DotDashed"},
		},
	},
	{
		Name:        "sch_delete_wire",
		Description: "Delete one or more wires by their primitive IDs",
		Method:      "sch.wire.delete",
		Params: []Param{
			{Name: "ids", Type: TypeStringOrList, Required: true, Description: "Single primitive ID or array of primitive IDs to delete"},
		},
	},
	{
		Name:        "sch_modify_wire",
		Description: "Modify properties of an existing wire",
		Method:      "sch.wire.modify",
		Nest:        "property",
		Keep:        []string{"primitiveId"},
		Params: []Param{
			{Name: "primitiveId", Type: TypeString, Required: true, Description: "The wire primitive ID"},
			{Name: "line", Type: TypeArray, Description: "New wire path coordinates"},
			{Name: "net", Type: TypeString, Description: "New net name"},
			{Name: "color", Type: TypeString, Description: "New wire color (null for default)"},
			{Name: "lineWidth", Type: TypeNumber, Description: "New wire width (null for default)"},
			{Name: "lineType", Type: TypeString, Enum: []string{"0", "1", "2", "3"}, Numeric: true, Description: "Line type: 0=Solid, 1=Dashed, 2=Dotted, 3=DotDashed"},
		},
	},
	{
		Name:        "sch_select_primitives",
		Description: "Select primitives in the schematic editor by their IDs. Note: doSelectPrimitives may not visually update; prefer sch_cross_probe_select for reliable selection.",
		Method:      "sch.select.select",
		Params: []Param{
			{Name: "primitiveIds", Type: TypeStringOrList, Required: true, Description: "Single primitive ID or array of primitive IDs to select"},
		},
	},
	{
		Name: "sch_cross_probe_select",
		Description: `Cross-probe select in the schematic editor by designators, pins, or nets.
This is the more reliable selection method: it highlights and selects components visually.
Pin format: "U1_1" (designator_pinNumber).`,
		Method: "sch.select.crossProbe",
		Params: []Param{
			{Name: "components", Type: TypeStrings, Description: "Component designators to select (e.g. [\"U3\", \"U13\"])"},
			{Name: "pins", Type: TypeStrings, Description: "Pins to select as designator_pinNumber (e.g. [\"U3_1\", \"U3_2\"])"},
			{Name: "nets", Type: TypeStrings, Description: "Net names to select (e.g. [\"GND\", \"VBUS\"])"},
			{Name: "highlight", Type: TypeBoolean, Default: true, Description: "Whether to highlight the selection (default: true)"},
			{Name: "select", Type: TypeBoolean, Default: true, Description: "Whether to select the primitives (default: true)"},
		},
	},
	{
		Name:        "sch_clear_selection",
		Description: "Clear all selection in the schematic editor",
		Method:      "sch.select.clear",
	},
	{
		Name:        "sch_set_netlist",
		Description: "Update the schematic netlist",
		Method:      "sch.netlist.set",
		Params: []Param{
			{Name: "type", Type: TypeString, Enum: []string{"Allegro", "PADS", "Protel2", "JLCEDA", "EasyEDA", "DISA"}, Description: "Netlist format type"},
			{Name: "netlist", Type: TypeString, Required: true, Description: "Netlist data string"},
		},
	},
	{
		Name:        "sch_save",
		Description: "Save the current schematic document",
		Method:      "sch.document.save",
	},
	{
		Name:        "sch_import_changes",
		Description: "Import changes from PCB back into the schematic",
		Method:      "sch.document.importChanges",
	},
}

// Library.
var libraryTools = []Spec{
	{
		Name:        "lib_search_device",
		Description: "Search the component library for devices by keyword. Returns a list of matching components with their UUIDs, names, descriptions, and package info.",
		Method:      "lib.device.search",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "key", Type: TypeString, Required: true, Description: "Search keyword (e.g. \"2.2k resistor\", \"STM32F103\", \"0805 capacitor\")"},
			{Name: "libraryUuid", Type: TypeString, Description: "Library UUID to search in (omit to search all libraries)"},
			{Name: "itemsOfPage", Type: TypeNumber, Description: "Number of results per page (default varies)"},
			{Name: "page", Type: TypeNumber, Description: "Page number (0-based)"},
		},
	},
	{
		Name:        "lib_get_device",
		Description: "Get detailed information about a specific device by its UUID, including symbol, footprint, and all properties",
		Method:      "lib.device.get",
		ReadOnly:    true,
		Params: []Param{
			{Name: "deviceUuid", Type: TypeString, Required: true, Description: "The device UUID"},
			{Name: "libraryUuid", Type: TypeString, Description: "Library UUID (omit to search all libraries)"},
		},
	},
	{
		Name:        "lib_get_device_by_lcsc",
		Description: "Get device(s) by LCSC C-number(s). Useful for finding specific components like \"C17414\" for a 2.2k resistor.",
		Method:      "lib.device.getByLcscIds",
		ReadOnly:    true,
		Query:       true,
		Params: []Param{
			{Name: "lcscIds", Type: TypeStringOrList, Required: true, Description: "Single LCSC ID (e.g. \"C17414\") or array of LCSC IDs"},
			{Name: "libraryUuid", Type: TypeString, Description: "Library UUID (omit to search all libraries)"},
		},
	},
	{
		Name:        "lib_get_system_library_uuid",
		Description: "Get the UUID of the system (built-in) component library",
		Method:      "lib.getSystemLibraryUuid",
		ReadOnly:    true,
	},
	{
		Name:        "lib_get_all_libraries",
		Description: "Get a list of all available component libraries with their UUIDs and names",
		Method:      "lib.getAllLibraries",
		ReadOnly:    true,
		Query:       true,
	},
}

// Editor and project.
var editorTools = []Spec{
	{
		Name:        "project_get_structure",
		Description: "Get the current project structure: boards (with their schematics/PCBs), standalone schematics with pages, standalone PCBs, and panels. Also shows which document is currently focused.",
		Method:      "editor.project.getStructure",
		ReadOnly:    true,
	},
	{
		Name:        "editor_get_current_document",
		Description: "Get detailed info about the currently focused document. For schematic pages, includes parent schematic info. For PCBs, includes associated board info.",
		Method:      "editor.getCurrentDocument",
		ReadOnly:    true,
	},
	{
		Name:        "editor_open_document",
		Description: "Open/navigate to a specific document by UUID. Works for schematic page UUIDs, PCB UUIDs, and panel UUIDs.",
		Method:      "editor.openDocument",
		Params: []Param{
			{Name: "documentUuid", Type: TypeString, Required: true, Description: "The UUID of the document to open"},
		},
	},
	{
		Name:        "editor_get_open_tabs",
		Description: "Get all currently open tabs in the editor, with the active tab marked. Also returns the split screen structure.",
		Method:      "editor.getOpenTabs",
		ReadOnly:    true,
	},
}

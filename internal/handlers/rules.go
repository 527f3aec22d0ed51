package handlers

import "github.com/gaspardpetit/edabridge/internal/cad"

// Rules covers rule configurations, net classes and the length-matching
// groups kept in the board's design rules.
func Rules(api cad.API) Partial {
	return Partial{Name: "drc-rules", Handlers: map[string]Func{
		"pcb.drc.getCurrentRuleConfigName": forward(api, "pcb_Drc.getCurrentRuleConfigurationName"),
		"pcb.drc.getRuleConfigByName":      forward(api, "pcb_Drc.getRuleConfiguration", "configurationName"),
		"pcb.drc.getAllRuleConfigs":        forward(api, "pcb_Drc.getAllRuleConfigurations", "includeSystem"),
		"pcb.drc.saveRuleConfig": forward(api, "pcb_Drc.saveRuleConfiguration",
			"ruleConfiguration", "configurationName", "allowOverwrite"),
		"pcb.drc.renameRuleConfig":         forward(api, "pcb_Drc.renameRuleConfiguration", "originalName", "newName"),
		"pcb.drc.deleteRuleConfig":         forward(api, "pcb_Drc.deleteRuleConfiguration", "configurationName"),
		"pcb.drc.getDefaultRuleConfigName": forward(api, "pcb_Drc.getDefaultRuleConfigurationName"),
		"pcb.drc.setAsDefaultRuleConfig":   forward(api, "pcb_Drc.setAsDefaultRuleConfiguration", "configurationName"),

		"pcb.drc.overwriteNetRules":      forward(api, "pcb_Drc.overwriteNetRules", "netRules"),
		"pcb.drc.getNetByNetRules":       forward(api, "pcb_Drc.getNetByNetRules"),
		"pcb.drc.overwriteNetByNetRules": forward(api, "pcb_Drc.overwriteNetByNetRules", "netByNetRules"),
		"pcb.drc.getRegionRules":         forward(api, "pcb_Drc.getRegionRules"),
		"pcb.drc.overwriteRegionRules":   forward(api, "pcb_Drc.overwriteRegionRules", "regionRules"),

		"pcb.drc.getAllNetClasses":      forward(api, "pcb_Drc.getAllNetClasses"),
		"pcb.drc.createNetClass":        forward(api, "pcb_Drc.createNetClass", "netClassName", "nets", "color"),
		"pcb.drc.deleteNetClass":        forward(api, "pcb_Drc.deleteNetClass", "netClassName"),
		"pcb.drc.modifyNetClassName":    forward(api, "pcb_Drc.modifyNetClassName", "originalName", "newName"),
		"pcb.drc.addNetToNetClass":      forward(api, "pcb_Drc.addNetToNetClass", "netClassName", "net"),
		"pcb.drc.removeNetFromNetClass": forward(api, "pcb_Drc.removeNetFromNetClass", "netClassName", "net"),

		"pcb.drc.createDiffPair":            forward(api, "pcb_Drc.createDifferentialPair", "name", "positiveNet", "negativeNet"),
		"pcb.drc.deleteDiffPair":            forward(api, "pcb_Drc.deleteDifferentialPair", "name"),
		"pcb.drc.modifyDiffPairName":        forward(api, "pcb_Drc.modifyDifferentialPairName", "originalName", "newName"),
		"pcb.drc.modifyDiffPairPositiveNet": forward(api, "pcb_Drc.modifyDifferentialPairPositiveNet", "name", "positiveNet"),
		"pcb.drc.modifyDiffPairNegativeNet": forward(api, "pcb_Drc.modifyDifferentialPairNegativeNet", "name", "negativeNet"),

		"pcb.drc.createEqualLengthGroup":        forward(api, "pcb_Drc.createEqualLengthNetGroup", "name", "nets", "color"),
		"pcb.drc.deleteEqualLengthGroup":        forward(api, "pcb_Drc.deleteEqualLengthNetGroup", "name"),
		"pcb.drc.modifyEqualLengthGroupName":    forward(api, "pcb_Drc.modifyEqualLengthNetGroupName", "originalName", "newName"),
		"pcb.drc.addNetToEqualLengthGroup":      forward(api, "pcb_Drc.addNetToEqualLengthNetGroup", "name", "net"),
		"pcb.drc.removeNetFromEqualLengthGroup": forward(api, "pcb_Drc.removeNetFromEqualLengthNetGroup", "name", "net"),

		"pcb.drc.createPadPairGroup":     forward(api, "pcb_Drc.createPadPairGroup", "name", "padPairs"),
		"pcb.drc.deletePadPairGroup":     forward(api, "pcb_Drc.deletePadPairGroup", "name"),
		"pcb.drc.modifyPadPairGroupName": forward(api, "pcb_Drc.modifyPadPairGroupName", "originalName", "newName"),
	}}
}

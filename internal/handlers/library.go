package handlers

import "github.com/gaspardpetit/edabridge/internal/cad"

// Library covers device search and library listing.
func Library(api cad.API) Partial {
	return Partial{Name: "library", Handlers: map[string]Func{
		"lib.device.search": forward(api, "lib_Device.search",
			"key", "libraryUuid", "classification", "symbolType", "itemsOfPage", "page"),
		"lib.device.get":           forward(api, "lib_Device.get", "deviceUuid", "libraryUuid"),
		"lib.device.getByLcscIds":  forward(api, "lib_Device.getByLcscIds", "lcscIds", "libraryUuid"),
		"lib.getSystemLibraryUuid": forward(api, "lib_LibrariesList.getSystemLibraryUuid"),
		"lib.getAllLibraries":      forward(api, "lib_LibrariesList.getAllLibrariesList"),
	}}
}

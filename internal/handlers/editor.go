package handlers

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gaspardpetit/edabridge/internal/cad"
	"github.com/gaspardpetit/edabridge/internal/wire"
)

// Document types reported by dmt_SelectControl.getCurrentDocumentInfo.
const (
	documentSchematic = 1
	documentPCB       = 3
)

// Editor covers project structure, documents and tabs.
func Editor(api cad.API) Partial {
	return Partial{Name: "editor", Handlers: map[string]Func{
		"editor.project.getStructure": func(ctx context.Context, _ *wire.Object) (wire.Value, error) {
			vals, err := invokeAll(ctx, api, "dmt_Project.getCurrentProjectInfo", "dmt_SelectControl.getCurrentDocumentInfo")
			if err != nil {
				return wire.Value{}, err
			}
			out := wire.NewObject()
			out.Set("project", vals[0])
			out.Set("currentDocument", vals[1])
			return wire.ObjectValue(out), nil
		},
		"editor.getCurrentDocument": func(ctx context.Context, _ *wire.Object) (wire.Value, error) {
			return currentDocument(ctx, api)
		},
		"editor.openDocument": forward(api, "dmt_EditorControl.openDocument", "documentUuid"),
		"editor.getOpenTabs": func(ctx context.Context, _ *wire.Object) (wire.Value, error) {
			vals, err := invokeAll(ctx, api, "dmt_EditorControl.getSplitScreenTree", "dmt_SelectControl.getCurrentDocumentInfo")
			if err != nil {
				return wire.Value{}, err
			}
			tree, doc := vals[0], vals[1]
			activeUUID := ""
			if u, ok := doc.Get("uuid"); ok {
				activeUUID, _ = u.AsString()
			}
			var tabs []wire.Value
			collectTabs(tree, activeUUID, &tabs)
			out := wire.NewObject()
			out.Set("tabs", wire.Array(tabs...))
			out.Set("splitScreenTree", tree)
			return wire.ObjectValue(out), nil
		},
	}}
}

func currentDocument(ctx context.Context, api cad.API) (wire.Value, error) {
	doc, err := api.Invoke(ctx, "dmt_SelectControl.getCurrentDocumentInfo", nil)
	if err != nil {
		return wire.Value{}, err
	}
	out := wire.NewObject()
	if doc.IsNull() {
		out.Set("document", wire.Null())
		return wire.ObjectValue(out), nil
	}
	out.Set("document", doc)

	docType := int64(-1)
	if t, ok := doc.Get("documentType"); ok {
		docType, _ = t.AsInt()
	}
	switch docType {
	case documentSchematic:
		vals, err := invokeAll(ctx, api, "dmt_Schematic.getCurrentSchematicPageInfo", "dmt_Schematic.getCurrentSchematicInfo")
		if err != nil {
			return wire.Value{}, err
		}
		out.Set("schematicPage", vals[0])
		out.Set("schematic", vals[1])
	case documentPCB:
		vals, err := invokeAll(ctx, api, "dmt_Pcb.getCurrentPcbInfo", "dmt_Board.getCurrentBoardInfo")
		if err != nil {
			return wire.Value{}, err
		}
		out.Set("pcb", vals[0])
		out.Set("board", vals[1])
	}
	return wire.ObjectValue(out), nil
}

// invokeAll runs argument-less operations concurrently and returns their
// results in order.
func invokeAll(ctx context.Context, api cad.API, operations ...string) ([]wire.Value, error) {
	vals := make([]wire.Value, len(operations))
	g, gctx := errgroup.WithContext(ctx)
	for i, op := range operations {
		g.Go(func() error {
			v, err := api.Invoke(gctx, op, nil)
			vals[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vals, nil
}

func collectTabs(node wire.Value, activeUUID string, tabs *[]wire.Value) {
	if list, ok := node.Get("tabs"); ok {
		items, _ := list.Items()
		for _, tab := range items {
			title, _ := tab.Get("title")
			id, _ := tab.Get("tabId")
			tabID, _ := id.AsString()
			entry := wire.NewObject()
			entry.Set("title", title)
			entry.Set("tabId", id)
			entry.Set("isActive", wire.Bool(activeUUID != "" && strings.HasPrefix(tabID, activeUUID)))
			*tabs = append(*tabs, wire.ObjectValue(entry))
		}
	}
	if children, ok := node.Get("children"); ok {
		items, _ := children.Items()
		for _, child := range items {
			collectTabs(child, activeUUID, tabs)
		}
	}
}

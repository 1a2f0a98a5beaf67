// Package rendergraph compiles a frame-scoped set of declared GPU tasks
// into an ordered batch list with automatically inserted synchronization
// barriers, packs transient resources into aliased memory pools, and
// executes the compiled plan against one or more devices.
//
// A typical frame:
//
//	g, _ := rendergraph.Create(devices, memAllocator, rendergraph.Options{
//		EnableReordering: true,
//		EnableAliasing:   true,
//		UseSplitBarriers: true,
//	})
//	color, _ := g.CreateTransientImage(rendergraph.TransientImageInfo{...})
//	g.Raster("opaque-pass").
//		WritesImage(types.StageColorAttachment, color).
//		Executes(func(ti *rendergraph.TaskInterface) { ... })
//	if err := g.Compile(); err != nil {
//		// handle CompileError
//	}
//	_ = g.Execute(0)
package rendergraph

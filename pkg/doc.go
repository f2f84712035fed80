// Package pkg provides the core libraries for cardpress.
//
// # Overview
//
// Cardpress turns rows of a card sheet into print-ready card images and
// tiles copies of them onto pages for printing and cutting. The pkg
// directory is organized into these areas:
//
//  1. [render] - Text wrapping, image fitting, card composition, page tiling
//  2. [source] - Card sheet (CSV) parsing
//  3. [resource] and [fonts] - Font and image lookup by name
//  4. [pipeline] - Orchestration (cards → pages → PDF) with caching
//  5. [cache], [config], [errors], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow through cardpress:
//
//	cards.csv
//	    ↓
//	[source] package (card specs)
//	    ↓
//	[render/card] package (one PNG per card)
//	    ↓
//	[render/page] package (grid, pages)
//	    ↓
//	page_N.png + all_pages.pdf
//
// # Quick Start
//
//	specs, _, _ := source.ReadSpecsFile("Input/cards.csv")
//	images := resource.NewDirResolver("Input/images", resource.ImageExtensions...)
//	composer, _ := card.NewComposer(card.DefaultConfig(), nil, images)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	results := runner.RenderCards(ctx, composer, specs)
//	sheet, _ := runner.TilePages(ctx, pipeline.Items(results), page.DefaultConfig())
package pkg

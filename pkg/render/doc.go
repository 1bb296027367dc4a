// Package render turns a computed grid layout into output artifacts.
//
// # Formats
//
//   - JSON ([RenderJSON]): the placements with item IDs and labels. JSON
//     output can be read back with [UnmarshalLayout], which restores a
//     [grid.State] without recomputing.
//   - SVG ([RenderSVG]): one rectangle per placement. [WithViewport] limits
//     output to the placements visible in a rectangle, the same query a
//     scrolling view issues.
//   - PNG and PDF ([ToPNG], [ToPDF]): converted from SVG by rsvg-convert.
//
// Item metadata is optional: without [WithItems], placements are labelled
// by index.
package render

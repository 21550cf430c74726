// Package scene parses Landsat scene and product identifiers and infers the
// catalog dataset they belong to.
//
// Two identifier shapes are recognised:
//
//	LC08_L1TP_042034_20130101_20170310_01_T1   product identifier (40 chars)
//	LC80420342013001LGN01                      scene identifier (21 chars)
//
// Guess is the entry point used by the downloader; it classifies the
// identifier, parses it and resolves the dataset name together with the
// WRS-2 path and row.
package scene

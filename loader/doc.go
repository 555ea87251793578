// Package loader holds the document loaders the catalog registers beyond
// what langchaingo ships: a directory loader with a path-substring file
// filter, a markdown loader that renders to plain text, and a web page
// loader.
//
// Every loader implements langchaingo's documentloaders.Loader, so the
// engine can load documents from any of them through one interface.
package loader

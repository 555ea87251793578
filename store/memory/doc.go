// Package memory provides the in-process LRU flow store.
package memory

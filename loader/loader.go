// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loader reads SafeTensors files into host tensors and describes them as memrefs.
//
// Example usage:
//
//	reg := memref.NewRegistry(memref.DefaultConfig())
//	described, err := loader.DescribeFile("model.safetensors", reg, loader.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range described {
//	    fmt.Println(d.Name, d.Descriptor)
//	}
package loader

import (
	"github.com/born-ml/memref/internal/loader"
	"github.com/born-ml/memref/internal/memref"
)

// SafeTensorsReader reads SafeTensors format files.
type SafeTensorsReader = loader.SafeTensorsReader

// Options configures a SafeTensorsReader.
type Options = loader.Options

// Described pairs a loaded tensor with the descriptor aliasing it.
type Described = loader.Described

// DefaultOptions returns the default reader options.
func DefaultOptions() Options {
	return loader.DefaultOptions()
}

// NewSafeTensorsReader opens a SafeTensors file.
func NewSafeTensorsReader(path string, opts Options) (*SafeTensorsReader, error) {
	return loader.NewSafeTensorsReaderWithOptions(path, opts)
}

// DescribeFile describes every tensor of a SafeTensors file, in name order.
func DescribeFile(path string, reg *memref.Registry, opts Options) ([]*Described, error) {
	return loader.DescribeFile(path, reg, opts)
}

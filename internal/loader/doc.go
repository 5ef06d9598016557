// Package loader reads tensors from SafeTensors files and describes them as memrefs.
//
// SafeTensors is the Hugging Face weight format: an 8-byte little-endian header
// length, a JSON header mapping tensor names to dtype, shape and byte range, then
// the raw tensor bytes. Every dtype with a host data type is supported, including
// F16, BF16, F8_E5M2 and C64.
//
// Example:
//
//	reg := memref.NewRegistry(memref.DefaultConfig())
//	described, err := loader.DescribeFile("model.safetensors", reg, loader.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range described {
//	    fmt.Println(d.Name, d.Descriptor)
//	}
//
// A Described value holds the loaded tensor next to its descriptor; the descriptor
// aliases the tensor's memory and is valid only while the tensor is reachable.
package loader

// Package checkpoint saves and restores named float32 tensors in the
// SafeTensors format so that trained parameters can be reloaded.
//
//	Format:
//	  [8 bytes: header size (uint64 LE)]
//	  [header: JSON {"name": {"dtype", "shape", "data_offsets"}, "__metadata__": {...}}]
//	  [tensor data: raw little-endian bytes, tensors in name order]
//
// Save records a SHA-256 of the data section under the "checksum"
// metadata key; Load verifies it when present.
//
// Example usage:
//
//	meta := map[string]string{"epoch": "3"}
//	if err := checkpoint.SaveParameters("model.safetensors", params, meta); err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := checkpoint.LoadParameters("model.safetensors", params); err != nil {
//	    log.Fatal(err)
//	}
package checkpoint

// Package factory provides a small generic registry used to build pluggable
// modules (metrics sinks, log stores, notifiers) from configuration. A module
// is declared by a type string plus a map of raw settings; registered
// factories decode the settings into typed structs and return the concrete
// implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[assign.LogStore]()
//	reg.Register("jsonl", func(conf map[string]any) (assign.LogStore, error) {
//	    var c struct {
//	        Path string `json:"path"`
//	    }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return logging.NewJSONLStore(c.Path)
//	})
//	store, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "cycles.jsonl"}})
package factory

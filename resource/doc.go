// Package resource provides the per-client protocol object table.
//
// Every protocol object a client creates is identified by an id the client
// picked. The table maps those ids to Go values and runs the value's
// destructor when the object goes away, either because the client destroyed
// it or because the client disconnected.
//
// # Object Table
//
//	table := resource.NewTable(0)
//
//	// Store a value under the client's id
//	err := table.Insert(7, "android_wlegl_handle", obj)
//
//	// Retrieve it, optionally checking the interface
//	value, ok := table.GetTyped(7, "android_wlegl_handle")
//
//	// Destroy it; values implementing Dropper get Drop() called
//	value, ok = table.Remove(7)
//
// Insert fails with ErrIDInUse when the id is live, ErrInvalidID for id 0
// and ErrFull when the table's object limit is reached.
//
// # Observers
//
// Register observers to track object lifecycle events:
//
//	table.Subscribe(observer)
//
// Observers see EventCreated after Insert and EventDestroyed after the
// destructor of a removed object has run.
//
// # Disconnect
//
// Close destroys every live object in id order and rejects further inserts.
package resource

// Package csync provides thread-safe collections.
//
// OrderedMap is a generic map guarded by a read-write mutex that remembers
// insertion order, so iteration is deterministic:
//
//	targets := csync.NewOrderedMap[string, *Target]()
//	targets.Set(".intro", t1)
//	targets.Set(".outro", t2)
//	targets.Range(func(selector string, t *Target) bool {
//		fmt.Println(selector) // .intro, then .outro
//		return true
//	})
//
// Setting an existing key replaces its value and moves the key to the end, the
// same order a delete followed by an insert would produce.
package csync

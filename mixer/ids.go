// SPDX-License-Identifier: EPL-2.0

package mixer

// SourceID names an asset registered in a Bank.
type SourceID string

// Handle identifies one playing instance. The zero Handle is never issued.
type Handle uint64

// GroupID selects a mixing group such as music or sound effects.
type GroupID uint32

// DefaultGroup is used when PlayParams leaves Group unset.
const DefaultGroup GroupID = 0

// Package domain models manually entered slope readings and the landslide risk
// bands derived from them.
//
// # Readings
//
// A reading is two numbers typed by a person in the field:
//
//	Soil moisture: percentage, 0–100 inclusive.
//	Slope:         degrees from horizontal, 0–90 inclusive.
//
// Input comes from a form, so both fields arrive as strings. A decimal comma is
// accepted in place of a decimal point ("60,5" reads as 60.5). Range checks happen
// once, at entry time; stored records are never re-validated on read.
//
// # Records
//
// Each accepted reading becomes a [SensorRecord] with a UUIDv7 identifier and a UTC
// timestamp taken from the package clock. Records are immutable. The collection only
// ever grows by one record at the end or is cleared entirely.
//
// Serialized shape (one element of the stored JSON array):
//
//	{"id":"0190c3e2-...","timestamp":"2024-04-26T15:10:00.000Z","soilMoisture":60.5,"slope":20}
//
// # Risk bands
//
// [Classify] maps a reading to a band with strict greater-than thresholds:
//
//	HIGH:   moisture > 70 and slope > 30
//	MEDIUM: moisture > 50 and slope > 15
//	LOW:    anything else in range
//
// A reading of exactly 70% at exactly 30° is therefore MEDIUM, and 50% at 15° is LOW.
// Non-finite inputs classify as INCOMPLETE. A stored record whose reading is absent
// or not a JSON number decodes as NaN, so it lands in INCOMPLETE rather than failing
// the whole history. Two further bands never come out of
// Classify: NO_DATA (nothing stored yet) and ERROR (records could not be loaded).
// Callers pick those before classification.
package domain

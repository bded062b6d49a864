// Package sanitizer normalizes free-text input before it reaches
// validation or storage. Sanitization never rejects input; it only
// cleans it. Rejection is the validator's job.
package sanitizer

// Package submit sends a validated account form to the backend endpoint as a
// single multipart/form-data POST. Any 2xx response is a success; every other
// status and every transport error is a failure. Nothing is retried.
package submit

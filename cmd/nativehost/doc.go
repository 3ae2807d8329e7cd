// Command nativehost loads the bundled example plugins into an offline
// host session. It lists and describes them, renders test signals through
// them while exercising buffer size and sample rate renegotiation, and
// keeps state blobs in the preset store.
package main

// Package imageproc provides the grayscale and binary raster operators the
// text-line tracer runs before any geometry is extracted: rescaling to the
// working resolution, contrast stretching, anisotropic Gaussian blur,
// grayscale morphology, adaptive binarization, gray-level peak detection and
// connected-component labeling.
//
// # Image conventions
//
// All operators take and return images whose bounds start at the origin.
// Grayscale images are *image.Gray with 0 = black ink and 255 = white paper.
//
// Binary images are also *image.Gray but hold only the values 0 and 255,
// where 255 means "set": in a binarized page 255 marks ink, in a mask 255
// marks membership. This differs from the usual scanned-page convention of
// dark-ink-is-low; flipping the sense once here keeps every predicate in the
// tracer a plain "is set" test.
//
// # Working resolution
//
// The tracer operates at roughly 200 DPI. Downscale brings higher-resolution
// input down to that range; all window sizes baked into the other operators
// (blur sigmas, erosion radii, peak neighborhoods) are tuned for it.
package imageproc

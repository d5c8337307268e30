package imaging

// ExtensionForFormat maps a decoded format name to the canonical cache file
// extension. The mapping is total: "jpeg" is special-cased to ".jpg", and any
// unrecognized or empty format defaults to ".jpg" as well, so a cached
// original always has an extension the resolver recognizes.
func ExtensionForFormat(format string) string {
	switch format {
	case "jpeg", "jpg", "":
		return ".jpg"
	case "png":
		return ".png"
	case "webp":
		return ".webp"
	case "gif":
		return ".gif"
	case "tiff":
		return ".tiff"
	case "avif":
		return ".avif"
	default:
		return ".jpg"
	}
}

// TargetExtension returns the artifact extension for a target format name.
func TargetExtension(format string) string {
	return ExtensionForFormat(format)
}

// ContentType returns the MIME type to tag published artifacts with.
func ContentType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	case "tiff":
		return "image/tiff"
	case "avif":
		return "image/avif"
	default:
		return "application/octet-stream"
	}
}

package release

import "strings"

// DefaultPackageExtension is the suffix of installable package assets.
const DefaultPackageExtension = ".apk"

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name        string
	DownloadURL string
}

// SelectPackageAsset returns the first asset whose name ends with ext.
func SelectPackageAsset(assets []Asset, ext string) (Asset, bool) {
	for _, asset := range assets {
		if strings.HasSuffix(asset.Name, ext) {
			return asset, true
		}
	}
	return Asset{}, false
}

package hourpackageRepo

import "carebook/models"

// PackageRepository supplies purchased hour packages as of request time. The
// validation core never refreshes a package mid-pass; callers re-fetch before
// re-validating after any state change.
type PackageRepository interface {
	GetPackageByID(id string) (*models.HourPackage, error)
	RecordConsumedHours(id string, hours float64) error
}

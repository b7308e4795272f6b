package config

import "strings"

// EncryptionInstanceClasses lists the DB instance classes that support
// storage encryption. An entry ending in ".*" matches a whole instance family.
type EncryptionInstanceClasses []string

// DefaultEncryptionInstanceClasses is used when the provider file does not
// set encryptionInstanceClasses.
var DefaultEncryptionInstanceClasses = EncryptionInstanceClasses{
	"db.m3.*",
	"db.m4.*",
	"db.m5.*",
	"db.m5d.*",
	"db.m6g.*",
	"db.m6gd.*",
	"db.m6i.*",
	"db.m7g.*",
	"db.r3.*",
	"db.r4.*",
	"db.r5.*",
	"db.r5b.*",
	"db.r5d.*",
	"db.r6g.*",
	"db.r6gd.*",
	"db.r6i.*",
	"db.r7g.*",
	"db.x1.*",
	"db.x1e.*",
	"db.x2g.*",
	"db.z1d.*",
	"db.t3.*",
	"db.t4g.*",
	"db.t2.small",
	"db.t2.medium",
	"db.t2.large",
	"db.t2.xlarge",
	"db.t2.2xlarge",
}

// Supports reports whether instanceClass supports storage encryption.
func (e EncryptionInstanceClasses) Supports(instanceClass string) bool {
	for _, entry := range e {
		if family, ok := strings.CutSuffix(entry, ".*"); ok {
			if strings.HasPrefix(instanceClass, family+".") {
				return true
			}
			continue
		}
		if entry == instanceClass {
			return true
		}
	}
	return false
}

package rds

import (
	"errors"
	"strconv"
	"time"
)

// ErrInstanceNotFound is returned by repositories when RDS has no record of a DB instance.
var ErrInstanceNotFound = errors.New("DB instance not found")

// DBInstance is the RDS-side record of a database instance. It is fetched on
// demand and never cached.
type DBInstance struct {
	// Identification
	DBInstanceIdentifier string
	DBInstanceArn        string

	// Engine configuration
	Engine        string
	EngineVersion string

	// Compute and storage
	DBInstanceClass  string
	AllocatedStorage int32

	// Network and access
	EndpointAddress    string
	EndpointPort       int32
	AvailabilityZone   string
	MultiAZ            bool
	PubliclyAccessible bool

	// Database
	DBName         string
	MasterUsername string

	// Security
	StorageEncrypted bool

	Tags map[string]string

	// State
	Status           string
	InstanceCreateAt *time.Time
}

// Instance is a DB instance found in RDS, paired with the template it was created from.
type Instance struct {
	Template          *InstanceTemplate
	VirtualInstanceID string
	Record            *DBInstance
}

// NewInstance wraps a remote record with its template.
func NewInstance(template *InstanceTemplate, virtualInstanceID string, record *DBInstance) *Instance {
	return &Instance{
		Template:          template,
		VirtualInstanceID: virtualInstanceID,
		Record:            record,
	}
}

// State returns the lifecycle state of the wrapped record.
func (i *Instance) State() InstanceState {
	return StateOf(i.Record)
}

// Display property keys.
const (
	DisplayInstanceIdentifier = "dbInstanceIdentifier"
	DisplayInstanceArn        = "dbInstanceArn"
	DisplayInstanceStatus     = "dbInstanceStatus"
	DisplayEngine             = "engine"
	DisplayEngineVersion      = "engineVersion"
	DisplayInstanceClass      = "dbInstanceClass"
	DisplayAllocatedStorage   = "allocatedStorage"
	DisplayEndpointAddress    = "endpointAddress"
	DisplayEndpointPort       = "endpointPort"
	DisplayAvailabilityZone   = "availabilityZone"
)

// DisplayProperties returns the record fields shown to operators.
// Fields RDS has not reported yet are left out.
func (i *Instance) DisplayProperties() map[string]string {
	props := map[string]string{
		DisplayInstanceIdentifier: i.VirtualInstanceID,
	}
	if i.Record == nil {
		return props
	}

	r := i.Record
	put := func(key, value string) {
		if value != "" {
			props[key] = value
		}
	}
	put(DisplayInstanceArn, r.DBInstanceArn)
	put(DisplayInstanceStatus, r.Status)
	put(DisplayEngine, r.Engine)
	put(DisplayEngineVersion, r.EngineVersion)
	put(DisplayInstanceClass, r.DBInstanceClass)
	put(DisplayEndpointAddress, r.EndpointAddress)
	put(DisplayAvailabilityZone, r.AvailabilityZone)
	if r.AllocatedStorage > 0 {
		props[DisplayAllocatedStorage] = strconv.Itoa(int(r.AllocatedStorage))
	}
	if r.EndpointPort > 0 {
		props[DisplayEndpointPort] = strconv.Itoa(int(r.EndpointPort))
	}

	return props
}

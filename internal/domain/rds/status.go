package rds

import "strings"

// Status is the raw DB instance status reported by RDS.
// See: https://docs.aws.amazon.com/AmazonRDS/latest/UserGuide/accessing-monitoring.html
type Status string

const (
	StatusAvailable                        Status = "available"
	StatusBackingUp                        Status = "backing-up"
	StatusBacktracking                     Status = "backtracking"
	StatusConfiguringEnhancedMonitoring    Status = "configuring-enhanced-monitoring"
	StatusConfiguringIAMDatabaseAuth       Status = "configuring-iam-database-auth"
	StatusConfiguringLogExports            Status = "configuring-log-exports"
	StatusConvertingToVPC                  Status = "converting-to-vpc"
	StatusCreating                         Status = "creating"
	StatusDeleting                         Status = "deleting"
	StatusDeleted                          Status = "deleted"
	StatusFailed                           Status = "failed"
	StatusInaccessibleEncryptionCredential Status = "inaccessible-encryption-credentials"
	StatusIncompatibleCredentials          Status = "incompatible-credentials"
	StatusIncompatibleNetwork              Status = "incompatible-network"
	StatusIncompatibleOptionGroup          Status = "incompatible-option-group"
	StatusIncompatibleParameters           Status = "incompatible-parameters"
	StatusIncompatibleRestore              Status = "incompatible-restore"
	StatusMaintenance                      Status = "maintenance"
	StatusModifying                        Status = "modifying"
	StatusMovingToVPC                      Status = "moving-to-vpc"
	StatusRebooting                        Status = "rebooting"
	StatusRenaming                         Status = "renaming"
	StatusResettingMasterCredentials       Status = "resetting-master-credentials"
	StatusRestoreError                     Status = "restore-error"
	StatusStarting                         Status = "starting"
	StatusStopped                          Status = "stopped"
	StatusStopping                         Status = "stopping"
	StatusStorageFull                      Status = "storage-full"
	StatusStorageOptimization              Status = "storage-optimization"
	StatusUpgrading                        Status = "upgrading"
)

// Stage is the orchestrator-facing lifecycle stage of an instance.
type Stage string

const (
	StagePending  Stage = "PENDING"
	StageRunning  Stage = "RUNNING"
	StageStopping Stage = "STOPPING"
	StageStopped  Stage = "STOPPED"
	StageDeleting Stage = "DELETING"
	StageDeleted  Stage = "DELETED"
	StageFailed   Stage = "FAILED"
	StageUnknown  Stage = "UNKNOWN"
)

// InstanceState pairs a lifecycle stage with the RDS status it was derived from.
// Caveat is set for statuses where the instance is usable but undergoing work.
type InstanceState struct {
	Stage       Stage  `json:"stage"`
	Description string `json:"description,omitempty"`
	Caveat      bool   `json:"caveat,omitempty"`
}

type stageMapping struct {
	stage  Stage
	caveat bool
}

var stageByStatus = map[Status]stageMapping{
	StatusCreating:     {stage: StagePending},
	StatusBacktracking: {stage: StagePending},

	StatusAvailable:                     {stage: StageRunning},
	StatusBackingUp:                     {stage: StageRunning, caveat: true},
	StatusModifying:                     {stage: StageRunning, caveat: true},
	StatusMaintenance:                   {stage: StageRunning, caveat: true},
	StatusRebooting:                     {stage: StageRunning},
	StatusRenaming:                      {stage: StageRunning},
	StatusResettingMasterCredentials:    {stage: StageRunning},
	StatusUpgrading:                     {stage: StageRunning},
	StatusConfiguringEnhancedMonitoring: {stage: StageRunning},
	StatusConfiguringIAMDatabaseAuth:    {stage: StageRunning},
	StatusConfiguringLogExports:         {stage: StageRunning},
	StatusMovingToVPC:                   {stage: StageRunning},
	StatusConvertingToVPC:               {stage: StageRunning},
	StatusStorageOptimization:           {stage: StageRunning},
	StatusStarting:                      {stage: StageRunning},

	StatusStopping: {stage: StageStopping},
	StatusStopped:  {stage: StageStopped},
	StatusDeleting: {stage: StageDeleting},
	StatusDeleted:  {stage: StageDeleted},

	StatusFailed:                           {stage: StageFailed},
	StatusInaccessibleEncryptionCredential: {stage: StageFailed},
	StatusIncompatibleCredentials:          {stage: StageFailed},
	StatusIncompatibleNetwork:              {stage: StageFailed},
	StatusIncompatibleOptionGroup:          {stage: StageFailed},
	StatusIncompatibleParameters:           {stage: StageFailed},
	StatusIncompatibleRestore:              {stage: StageFailed},
	StatusRestoreError:                     {stage: StageFailed},
	StatusStorageFull:                      {stage: StageFailed},
}

// LifecycleStage maps a raw RDS status to an instance state. A nil status
// means the instance was not found. Unrecognized statuses map to UNKNOWN.
func LifecycleStage(rawStatus *string) InstanceState {
	if rawStatus == nil {
		return InstanceState{Stage: StageUnknown, Description: "not found"}
	}

	status := Status(strings.ToLower(strings.TrimSpace(*rawStatus)))
	m, ok := stageByStatus[status]
	if !ok {
		// other configuring-* statuses leave the instance usable
		if strings.HasPrefix(string(status), "configuring-") {
			return InstanceState{Stage: StageRunning, Description: *rawStatus}
		}
		return InstanceState{Stage: StageUnknown, Description: *rawStatus}
	}

	return InstanceState{Stage: m.stage, Description: *rawStatus, Caveat: m.caveat}
}

// StateOf returns the state of a remote record; a nil record maps to UNKNOWN.
func StateOf(record *DBInstance) InstanceState {
	if record == nil {
		return LifecycleStage(nil)
	}
	status := record.Status
	return LifecycleStage(&status)
}

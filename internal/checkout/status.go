package checkout

// Status is the submission state machine:
// Idle -> Submitting -> {Succeeded, FailedCodeConsumption, FailedOrderCreation}.
//
// FailedCodeConsumption is not terminal for the order itself: consumption
// failure drops the discount and the submission continues undiscounted. The
// final result records that it happened.
type Status string

const (
	StatusIdle                  Status = "idle"
	StatusSubmitting            Status = "submitting"
	StatusSucceeded             Status = "succeeded"
	StatusFailedCodeConsumption Status = "failed_code_consumption"
	StatusFailedOrderCreation   Status = "failed_order_creation"
)

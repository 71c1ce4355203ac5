package booking

// Outcome is the result of one external booking attempt: a provider
// reference on success or a failure reason, never both.
type Outcome struct {
	Confirmed bool
	Reference string
	Reason    string
}

// Booked returns a successful outcome carrying the provider's reference.
func Booked(reference string) Outcome {
	return Outcome{Confirmed: true, Reference: reference}
}

// Failed returns a failed outcome carrying a human-readable reason.
func Failed(reason string) Outcome {
	return Outcome{Reason: reason}
}

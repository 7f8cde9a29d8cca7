package monitor_gateway

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	// Run
	UpForSeconds *prometheus.Desc

	// Gateway
	RequestsServed           *prometheus.Desc
	EventSubscribers         *prometheus.Desc
	AverageRequestsPerMinute *prometheus.Desc
	ServerErrors             *prometheus.Desc
	ClientErrors             *prometheus.Desc
	RateLimited              *prometheus.Desc

	// Hyle
	BlobsSent           *prometheus.Desc
	ProofsSent          *prometheus.Desc
	ContractsRegistered *prometheus.Desc
	NodeRequestFailures *prometheus.Desc
	IndexerFailures     *prometheus.Desc

	// Proofs
	ProofsReceived  *prometheus.Desc
	ProofsVerified  *prometheus.Desc
	ProofsRejected  *prometheus.Desc
	EventsPublished *prometheus.Desc
	ClaimsExecuted  *prometheus.Desc
	ClaimsSucceeded *prometheus.Desc
	ClaimsRecorded  *prometheus.Desc
	ClaimFailures   *prometheus.Desc
	LedgerFailures  *prometheus.Desc

	// WebAuthn
	Registrations        *prometheus.Desc
	Logins               *prometheus.Desc
	RegistrationFailures *prometheus.Desc
	LoginFailures        *prometheus.Desc
}

func NewCollector() *Collector {
	return &Collector{
		UpForSeconds: prometheus.NewDesc("up_for_seconds", "", nil, nil),

		RequestsServed:           prometheus.NewDesc("gateway_requests_served", "", nil, nil),
		EventSubscribers:         prometheus.NewDesc("gateway_event_subscribers", "", nil, nil),
		AverageRequestsPerMinute: prometheus.NewDesc("gateway_average_requests_per_minute", "", nil, nil),
		ServerErrors:             prometheus.NewDesc("gateway_server_errors", "", nil, nil),
		ClientErrors:             prometheus.NewDesc("gateway_client_errors", "", nil, nil),
		RateLimited:              prometheus.NewDesc("gateway_rate_limited", "", nil, nil),

		BlobsSent:           prometheus.NewDesc("hyle_blobs_sent", "", nil, nil),
		ProofsSent:          prometheus.NewDesc("hyle_proofs_sent", "", nil, nil),
		ContractsRegistered: prometheus.NewDesc("hyle_contracts_registered", "", nil, nil),
		NodeRequestFailures: prometheus.NewDesc("hyle_node_request_failures", "", nil, nil),
		IndexerFailures:     prometheus.NewDesc("hyle_indexer_request_failures", "", nil, nil),

		ProofsReceived:  prometheus.NewDesc("proofs_received", "", nil, nil),
		ProofsVerified:  prometheus.NewDesc("proofs_verified", "", nil, nil),
		ProofsRejected:  prometheus.NewDesc("proofs_rejected", "", nil, nil),
		EventsPublished: prometheus.NewDesc("proofs_events_published", "", nil, nil),
		ClaimsExecuted:  prometheus.NewDesc("claims_executed", "", nil, nil),
		ClaimsSucceeded: prometheus.NewDesc("claims_succeeded", "", nil, nil),
		ClaimsRecorded:  prometheus.NewDesc("claims_recorded", "", nil, nil),
		ClaimFailures:   prometheus.NewDesc("claim_failures", "", nil, nil),
		LedgerFailures:  prometheus.NewDesc("ledger_failures", "", nil, nil),

		Registrations:        prometheus.NewDesc("webauthn_registrations", "", nil, nil),
		Logins:               prometheus.NewDesc("webauthn_logins", "", nil, nil),
		RegistrationFailures: prometheus.NewDesc("webauthn_registration_failures", "", nil, nil),
		LoginFailures:        prometheus.NewDesc("webauthn_login_failures", "", nil, nil),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.UpForSeconds

	ch <- self.RequestsServed
	ch <- self.EventSubscribers
	ch <- self.AverageRequestsPerMinute
	ch <- self.ServerErrors
	ch <- self.ClientErrors
	ch <- self.RateLimited

	ch <- self.BlobsSent
	ch <- self.ProofsSent
	ch <- self.ContractsRegistered
	ch <- self.NodeRequestFailures
	ch <- self.IndexerFailures

	ch <- self.ProofsReceived
	ch <- self.ProofsVerified
	ch <- self.ProofsRejected
	ch <- self.EventsPublished
	ch <- self.ClaimsExecuted
	ch <- self.ClaimsSucceeded
	ch <- self.ClaimsRecorded
	ch <- self.ClaimFailures
	ch <- self.LedgerFailures

	ch <- self.Registrations
	ch <- self.Logins
	ch <- self.RegistrationFailures
	ch <- self.LoginFailures
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	r := self.monitor.GetReport()

	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(r.Run.State.UpForSeconds.Load()))

	ch <- prometheus.MustNewConstMetric(self.RequestsServed, prometheus.CounterValue, float64(r.Gateway.State.RequestsServed.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventSubscribers, prometheus.GaugeValue, float64(r.Gateway.State.EventSubscribers.Load()))
	ch <- prometheus.MustNewConstMetric(self.AverageRequestsPerMinute, prometheus.GaugeValue, r.Gateway.State.AverageRequestsPerMinute.Load())
	ch <- prometheus.MustNewConstMetric(self.ServerErrors, prometheus.CounterValue, float64(r.Gateway.Errors.ServerErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.ClientErrors, prometheus.CounterValue, float64(r.Gateway.Errors.ClientErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.RateLimited, prometheus.CounterValue, float64(r.Gateway.Errors.RateLimited.Load()))

	ch <- prometheus.MustNewConstMetric(self.BlobsSent, prometheus.CounterValue, float64(r.Hyle.State.BlobsSent.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProofsSent, prometheus.CounterValue, float64(r.Hyle.State.ProofsSent.Load()))
	ch <- prometheus.MustNewConstMetric(self.ContractsRegistered, prometheus.CounterValue, float64(r.Hyle.State.ContractsRegistered.Load()))
	ch <- prometheus.MustNewConstMetric(self.NodeRequestFailures, prometheus.CounterValue, float64(r.Hyle.Errors.NodeRequestFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.IndexerFailures, prometheus.CounterValue, float64(r.Hyle.Errors.IndexerRequestFailures.Load()))

	ch <- prometheus.MustNewConstMetric(self.ProofsReceived, prometheus.CounterValue, float64(r.Proofs.State.ProofsReceived.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProofsVerified, prometheus.CounterValue, float64(r.Proofs.State.ProofsVerified.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProofsRejected, prometheus.CounterValue, float64(r.Proofs.Errors.ProofsRejected.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventsPublished, prometheus.CounterValue, float64(r.Proofs.State.EventsPublished.Load()))
	ch <- prometheus.MustNewConstMetric(self.ClaimsExecuted, prometheus.CounterValue, float64(r.Proofs.State.ClaimsExecuted.Load()))
	ch <- prometheus.MustNewConstMetric(self.ClaimsSucceeded, prometheus.CounterValue, float64(r.Proofs.State.ClaimsSucceeded.Load()))
	ch <- prometheus.MustNewConstMetric(self.ClaimsRecorded, prometheus.CounterValue, float64(r.Proofs.State.ClaimsRecorded.Load()))
	ch <- prometheus.MustNewConstMetric(self.ClaimFailures, prometheus.CounterValue, float64(r.Proofs.Errors.ClaimFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.LedgerFailures, prometheus.CounterValue, float64(r.Proofs.Errors.LedgerFailures.Load()))

	ch <- prometheus.MustNewConstMetric(self.Registrations, prometheus.CounterValue, float64(r.WebAuthn.State.Registrations.Load()))
	ch <- prometheus.MustNewConstMetric(self.Logins, prometheus.CounterValue, float64(r.WebAuthn.State.Logins.Load()))
	ch <- prometheus.MustNewConstMetric(self.RegistrationFailures, prometheus.CounterValue, float64(r.WebAuthn.Errors.RegistrationFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.LoginFailures, prometheus.CounterValue, float64(r.WebAuthn.Errors.LoginFailures.Load()))
}

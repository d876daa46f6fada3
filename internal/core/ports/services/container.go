package services

// ServiceContainer bundles the service facades for injection into the HTTP
// layer and the feed worker.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Transaction TransactionSvcFacade
	Category    CategorySvcFacade
	Reporting   ReportingSvc
}

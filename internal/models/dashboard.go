package models

// Dashboard aggregates a user's activity for the home screen.
type Dashboard struct {
	Coins              int               `json:"coins"`
	ReportCount        int               `json:"report_count"`
	FavoriteCount      int               `json:"favorite_count"`
	EnrollmentCount    int               `json:"enrollment_count"`
	CompletedCourses   int               `json:"completed_courses"`
	RecentReports      []ReportSummary   `json:"recent_reports"`
	RecentTransactions []CoinTransaction `json:"recent_transactions"`
}

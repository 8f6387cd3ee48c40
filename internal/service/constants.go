package service

// Query limits
const (
	// maxDetailActivities caps the activities shown on the rider detail screen
	maxDetailActivities = 30

	// maxRecentActivities caps the club-wide recent activity feed
	maxRecentActivities = 15

	// dashboardTrendDays is how many days of distance the dashboard chart shows
	dashboardTrendDays = 28

	// dashboardTopRiders is how many leaderboard rows fit on the dashboard
	dashboardTopRiders = 5
)

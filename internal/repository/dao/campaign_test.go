package dao

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ego-component/egorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campaign-dispatcher/internal/errs"
)

type CampaignDAOTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	dao  CampaignDAO
}

func TestCampaignDAOSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CampaignDAOTestSuite))
}

func (s *CampaignDAOTestSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	s.Require().NoError(err)
	var component *egorm.Component = gormDB
	s.mock = mock
	s.dao = NewCampaignDAO(component)
	s.T().Cleanup(func() { _ = db.Close() })
}

func (s *CampaignDAOTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CampaignDAOTestSuite) campaignRows(id, total, sent, delivered, failed, avg int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "status", "total_recipients", "sent", "delivered", "failed", "avg_delivery_ms"}).
		AddRow(id, "双十一", "RUNNING", total, sent, delivered, failed, avg)
}

func (s *CampaignDAOTestSuite) TestGetByID() {
	t := s.T()
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `campaigns` WHERE id = ?")).
		WillReturnRows(s.campaignRows(1, 10, 1, 1, 0, 200))
	c, err := s.dao.GetByID(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "RUNNING", c.Status)
	assert.Equal(t, int64(200), c.AvgDeliveryMs)

	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `campaigns` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = s.dao.GetByID(t.Context(), 2)
	assert.ErrorIs(t, err, errs.ErrCampaignNotFound)
}

func (s *CampaignDAOTestSuite) TestFindByStatuses() {
	t := s.T()
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `campaigns` WHERE status IN (?,?) ORDER BY id ASC")).
		WillReturnRows(s.campaignRows(1, 10, 0, 0, 0, 0).
			AddRow(2, "年货节", "SCHEDULED", 5, 0, 0, 0, 0))
	res, err := s.dao.FindByStatuses(t.Context(), []string{"SCHEDULED", "RUNNING"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "年货节", res[1].Name)
}

func (s *CampaignDAOTestSuite) TestCASStatus() {
	t := s.T()
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE `campaigns` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()
	require.NoError(t, s.dao.CASStatus(t.Context(), 1, "SCHEDULED", "RUNNING", nil))
}

func (s *CampaignDAOTestSuite) TestCASStatus_Conflict() {
	t := s.T()
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE `campaigns` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()
	err := s.dao.CASStatus(t.Context(), 1, "SCHEDULED", "RUNNING", nil)
	assert.ErrorIs(t, err, errs.ErrCampaignVersionMismatch)
}

func (s *CampaignDAOTestSuite) TestCASStatus_WithErrorLog() {
	t := s.T()
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE `campaigns` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `campaign_error_logs`")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	s.mock.ExpectCommit()
	errLog := &CampaignErrorLog{ErrorClass: "campaign", Error: "发送窗口已结束"}
	require.NoError(t, s.dao.CASStatus(t.Context(), 1, "RUNNING", "FAILED", errLog))
	assert.Equal(t, int64(1), errLog.CampaignID)
	assert.Equal(t, int64(7), errLog.ID)
}

func (s *CampaignDAOTestSuite) TestMarkDelivered() {
	t := s.T()
	const sentAt int64 = 1748764800000
	s.mock.ExpectBegin()
	s.mock.ExpectQuery("SELECT \\* FROM `campaigns` WHERE id = \\?.*FOR UPDATE").
		WillReturnRows(s.campaignRows(1, 10, 3, 3, 0, 100))
	// (100 * 3 + 300) / 4 = 150
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE `campaigns` SET")).
		WithArgs(int64(150), int64(4), sentAt, int64(4), sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()
	require.NoError(t, s.dao.MarkDelivered(t.Context(), 1, 300, sentAt))
}

func (s *CampaignDAOTestSuite) TestMarkDelivered_CounterOverflow() {
	t := s.T()
	s.mock.ExpectBegin()
	s.mock.ExpectQuery("SELECT \\* FROM `campaigns` WHERE id = \\?.*FOR UPDATE").
		WillReturnRows(s.campaignRows(1, 4, 3, 3, 1, 100))
	s.mock.ExpectRollback()
	err := s.dao.MarkDelivered(t.Context(), 1, 300, 1748764800000)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func (s *CampaignDAOTestSuite) TestMarkFailed() {
	t := s.T()
	s.mock.ExpectBegin()
	s.mock.ExpectQuery("SELECT \\* FROM `campaigns` WHERE id = \\?.*FOR UPDATE").
		WillReturnRows(s.campaignRows(1, 10, 3, 3, 0, 100))
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE `campaigns` SET")).
		WithArgs(int64(1), sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `campaign_error_logs`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()
	require.NoError(t, s.dao.MarkFailed(t.Context(), CampaignErrorLog{
		CampaignID: 1,
		MessageID:  "1-0",
		Recipient:  "+8613800000000",
		ErrorClass: "transient",
		Error:      "发送失败，可重试",
		Attempts:   4,
	}))
}

func (s *CampaignDAOTestSuite) TestMarkFailed_NotFound() {
	t := s.T()
	s.mock.ExpectBegin()
	s.mock.ExpectQuery("SELECT \\* FROM `campaigns` WHERE id = \\?.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	s.mock.ExpectRollback()
	err := s.dao.MarkFailed(t.Context(), CampaignErrorLog{CampaignID: 9})
	assert.ErrorIs(t, err, errs.ErrCampaignNotFound)
}

func (s *CampaignDAOTestSuite) TestUpdateMetrics() {
	t := s.T()
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE `campaigns` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.dao.UpdateMetrics(t.Context(), 1, CampaignMetrics{SuccessRate: 1, CompletionPercent: 100}))

	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE `campaigns` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := s.dao.UpdateMetrics(t.Context(), 2, CampaignMetrics{})
	assert.ErrorIs(t, err, errs.ErrCampaignNotFound)
}

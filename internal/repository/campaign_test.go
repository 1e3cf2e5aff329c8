package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	ca "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campaign-dispatcher/internal/domain"
	"campaign-dispatcher/internal/errs"
	"campaign-dispatcher/internal/repository/cache/local"
	"campaign-dispatcher/internal/repository/dao"
)

func newTestRepository(t *testing.T) (CampaignRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	repo := NewCampaignRepository(dao.NewCampaignDAO(gormDB), local.NewCampaignCache(ca.New(time.Minute, time.Minute)))
	return repo, mock
}

func TestCampaignRepository_GetCampaign(t *testing.T) {
	t.Parallel()
	repo, mock := newTestRepository(t)
	ctx := t.Context()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `campaigns` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "kind", "template", "target_filter", "rate_limit", "status",
			"total_recipients", "sent", "delivered", "failed", "avg_delivery_ms", "start_time",
		}).AddRow(1, "双十一", "broadcast", `{"content":"你好 {{name}}","variables":["name"]}`, `{"city":"杭州"}`,
			60, "RUNNING", 10, 4, 4, 1, 250, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `campaign_error_logs` WHERE campaign_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "campaign_id", "message_id", "error_class", "error", "attempts", "ctime"}).
			AddRow(1, 1, "1-3", "transient", "发送失败，可重试", 4, 1748764800000))

	c, err := repo.GetCampaign(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignKindBroadcast, c.Kind)
	assert.Equal(t, []string{"name"}, c.Template.Variables)
	assert.Equal(t, "杭州", c.TargetFilter["city"])
	assert.Equal(t, domain.CampaignStatusRunning, c.Status)
	assert.True(t, c.Schedule.StartTime.IsZero())
	assert.Equal(t, 250*time.Millisecond, c.Metrics.AvgDeliveryTime)
	assert.InDelta(t, 0.8, c.Metrics.SuccessRate, 1e-9)
	require.Len(t, c.ErrorLog, 1)
	assert.Equal(t, "1-3", c.ErrorLog[0].MessageID)

	// 第二次命中本地缓存，不会再查数据库
	c, err = repo.GetCampaign(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "双十一", c.Name)
}

func TestCampaignRepository_UpdateStatus(t *testing.T) {
	t.Parallel()
	repo, mock := newTestRepository(t)
	ctx := t.Context()

	// 非法流转不会碰数据库
	err := repo.UpdateStatus(ctx, 1, domain.CampaignStatusDraft, domain.CampaignStatusRunning, domain.StatusMeta{})
	assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	err = repo.UpdateStatus(ctx, 1, domain.CampaignStatusCompleted, domain.CampaignStatusRunning, domain.StatusMeta{})
	assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `campaigns` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `campaign_error_logs`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	err = repo.UpdateStatus(ctx, 1, domain.CampaignStatusRunning, domain.CampaignStatusFailed,
		domain.StatusMeta{Reason: "发送窗口已结束", ErrorClass: "window_ended"})
	require.NoError(t, err)
}

func TestCampaignRepository_FindByStatuses(t *testing.T) {
	t.Parallel()
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `campaigns` WHERE status IN (?,?)")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status", "rate_limit"}).
			AddRow(1, "a", "SCHEDULED", 60).
			AddRow(2, "b", "RUNNING", 90))
	res, err := repo.FindByStatuses(t.Context(), domain.CampaignStatusScheduled, domain.CampaignStatusRunning)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 90, res[1].Schedule.RateLimit)
}

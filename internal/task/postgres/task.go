package postgres

import (
	"time"

	"github.com/rahadianw/siteops/internal/notification"
	"github.com/rahadianw/siteops/internal/task"
	"gorm.io/gorm"
)

// TaskRepository implements task.Repository using GORM.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) baseQuery() *gorm.DB {
	return r.db.Model(&task.Task{}).
		Select("tasks.*, s.name AS site_name, u1.full_name AS assigned_to_name, u2.full_name AS assigned_by_name").
		Joins("LEFT JOIN sites s ON tasks.site_id = s.id").
		Joins("LEFT JOIN users u1 ON tasks.assigned_to = u1.id").
		Joins("LEFT JOIN users u2 ON tasks.assigned_by = u2.id")
}

func (r *TaskRepository) List(filter task.Filter) ([]task.Task, error) {
	var tasks []task.Task

	query := r.baseQuery()
	if filter.SiteID != nil {
		query = query.Where("tasks.site_id = ?", *filter.SiteID)
	}
	if filter.Status != "" {
		query = query.Where("tasks.status = ?", filter.Status)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tasks.assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Priority != "" {
		query = query.Where("tasks.priority = ?", filter.Priority)
	}

	err := query.Order("tasks.created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindByID(id int64) (*task.Task, error) {
	var t task.Task
	err := r.baseQuery().Where("tasks.id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListUpdates(taskID int64) ([]task.Update, error) {
	var updates []task.Update
	err := r.db.Model(&task.Update{}).
		Select("task_updates.*, u.full_name AS updated_by_name").
		Joins("LEFT JOIN users u ON task_updates.updated_by = u.id").
		Where("task_updates.task_id = ?", taskID).
		Order("task_updates.created_at DESC").
		Find(&updates).Error
	return updates, err
}

// Create inserts the task and the assignee notification together; a failure
// on either rolls back both.
func (r *TaskRepository) Create(t *task.Task, notify *notification.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if notify != nil {
			notify.RelatedID = &t.ID
			if err := tx.Create(notify).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TaskRepository) Update(id int64, changes map[string]interface{}) (*task.Task, error) {
	result := r.db.Model(&task.Task{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindByID(id)
}

// AppendUpdate inserts the progress row; at 100% the parent task is marked
// completed in the same transaction.
func (r *TaskRepository) AppendUpdate(u *task.Update, completeParent bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if completeParent {
			return tx.Model(&task.Task{}).Where("id = ?", u.TaskID).Updates(map[string]interface{}{
				"status":       task.StatusCompleted,
				"completed_at": time.Now(),
			}).Error
		}
		return nil
	})
}

func (r *TaskRepository) ListDailyActivities(filter task.ActivityFilter) ([]task.DailyActivity, error) {
	var activities []task.DailyActivity

	query := r.db.Model(&task.DailyActivity{}).
		Select("daily_activities.*, s.name AS site_name, u.full_name AS user_name").
		Joins("LEFT JOIN sites s ON daily_activities.site_id = s.id").
		Joins("LEFT JOIN users u ON daily_activities.user_id = u.id")

	if filter.SiteID != nil {
		query = query.Where("daily_activities.site_id = ?", *filter.SiteID)
	}
	if filter.ActivityDate != nil {
		query = query.Where("daily_activities.activity_date = ?", *filter.ActivityDate)
	}
	if filter.UserID != nil {
		query = query.Where("daily_activities.user_id = ?", *filter.UserID)
	}

	err := query.Order("daily_activities.created_at DESC").Find(&activities).Error
	return activities, err
}

func (r *TaskRepository) CreateDailyActivity(a *task.DailyActivity) error {
	return r.db.Create(a).Error
}

package server

import (
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"skillsync/auth"
	"skillsync/domain"
	"skillsync/services"
)

type TaskController struct {
	log     *slog.Logger
	service services.ITaskService
}

func NewTaskController(log *slog.Logger, service services.ITaskService) *TaskController {
	return &TaskController{log: log, service: service}
}

func (ctl *TaskController) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CreateTaskRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		task, err := ctl.service.CreateTask(c.Request.Context(), auth.UserID(c), req)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

func (ctl *TaskController) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := ctl.service.GetTask(c.Request.Context(), c.Param("taskId"))
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// List is public. Query parameters status, category and location narrow the result.
func (ctl *TaskController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := domain.TaskFilter{
			Status:   domain.TaskStatus(c.Query("status")),
			Category: domain.TaskCategory(c.Query("category")),
			Location: c.Query("location"),
		}
		tasks, err := ctl.service.ListTasks(c.Request.Context(), filter)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func (ctl *TaskController) Mine() gin.HandlerFunc {
	return func(c *gin.Context) {
		mine, err := ctl.service.MyTasks(c.Request.Context(), auth.UserID(c))
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, mine)
	}
}

func (ctl *TaskController) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.UpdateTaskRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		task, err := ctl.service.UpdateTask(c.Request.Context(), auth.UserID(c), c.Param("taskId"), req)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func (ctl *TaskController) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ctl.service.DeleteTask(c.Request.Context(), auth.UserID(c), c.Param("taskId")); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Task removed"})
	}
}

func (ctl *TaskController) Apply() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.ApplyRequest
		// The message is optional, so is the body
		if c.Request.ContentLength != 0 {
			if err := bindJSON(c, &req); err != nil {
				writeError(c, ctl.log, err)
				return
			}
		}
		task, err := ctl.service.ApplyForTask(c.Request.Context(), auth.UserID(c), c.Param("taskId"), req)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func (ctl *TaskController) Complete() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CompleteTaskRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		task, err := ctl.service.CompleteTask(c.Request.Context(), auth.UserID(c), c.Param("taskId"), req)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

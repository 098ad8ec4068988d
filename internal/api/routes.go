package api

import (
	"net/http"

	"alcyxob/routine-planner/internal/logger"
	"alcyxob/routine-planner/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	log *logger.Logger,
	jwtSecret string,
	authService service.AuthService,
	routineService service.RoutineService,
	weekService service.WeekService,
	dayService service.DayService,
	blockService service.BlockService,
	reService service.RoutineExerciseService,
	exerciseService service.ExerciseService,
) {
	authHandler := NewAuthHandler(authService)
	routineHandler := NewRoutineHandler(routineService)
	weekHandler := NewWeekHandler(weekService)
	dayHandler := NewDayHandler(dayService)
	blockHandler := NewBlockHandler(blockService)
	reHandler := NewRoutineExerciseHandler(reService)
	exerciseHandler := NewExerciseHandler(exerciseService)

	router.Use(RequestLogger(log))
	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		respondData(c, http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			respondData(c, http.StatusOK, gin.H{"userId": userIDStr})
		})

		// --- Exercise Catalog ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:exerciseId", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", exerciseHandler.DeactivateExercise)
			exerciseGroup.POST("/:exerciseId/video/upload-url", exerciseHandler.RequestVideoUpload)
			exerciseGroup.GET("/:exerciseId/video/download-url", exerciseHandler.GetVideoDownloadURL)
		}

		// --- Routines ---
		routineGroup := protected.Group("/routines")
		{
			routineGroup.POST("", routineHandler.CreateRoutine)
			routineGroup.GET("", routineHandler.ListRoutines)
			// GET /api/v1/routines/{routineId}?full=true returns the whole tree
			routineGroup.GET("/:routineId", routineHandler.GetRoutine)
			routineGroup.PUT("/:routineId", routineHandler.UpdateRoutine)
			routineGroup.DELETE("/:routineId", routineHandler.DeleteRoutine)
			routineGroup.POST("/:routineId/duplicate", routineHandler.DuplicateRoutine)

			routineGroup.POST("/:routineId/weeks", weekHandler.CreateWeek)
			routineGroup.GET("/:routineId/weeks", weekHandler.ListWeeks)
		}

		// --- Weeks ---
		// Child nodes are addressed by their own ID; ownership resolves
		// through the stored routine reference, not the URL.
		weekGroup := protected.Group("/weeks")
		{
			weekGroup.GET("/:weekId", weekHandler.GetWeek)
			weekGroup.PUT("/:weekId", weekHandler.UpdateWeek)
			weekGroup.DELETE("/:weekId", weekHandler.DeleteWeek)

			weekGroup.POST("/:weekId/days", dayHandler.CreateDay)
			weekGroup.GET("/:weekId/days", dayHandler.ListDays)
		}

		// --- Days ---
		dayGroup := protected.Group("/days")
		{
			dayGroup.GET("/:dayId", dayHandler.GetDay)
			dayGroup.PUT("/:dayId", dayHandler.UpdateDay)
			dayGroup.DELETE("/:dayId", dayHandler.DeleteDay)

			dayGroup.POST("/:dayId/blocks", blockHandler.CreateBlock)
			dayGroup.GET("/:dayId/blocks", blockHandler.ListBlocks)
			dayGroup.PUT("/:dayId/blocks/reorder", blockHandler.ReorderBlocks)
		}

		// --- Blocks ---
		blockGroup := protected.Group("/blocks")
		{
			blockGroup.GET("/:blockId", blockHandler.GetBlock)
			blockGroup.PUT("/:blockId", blockHandler.UpdateBlock)
			blockGroup.DELETE("/:blockId", blockHandler.DeleteBlock)

			blockGroup.POST("/:blockId/exercises", reHandler.AddExercise)
			blockGroup.GET("/:blockId/exercises", reHandler.ListExercises)
			blockGroup.PUT("/:blockId/exercises/reorder", reHandler.ReorderExercises)
		}

		// --- Planned Exercises ---
		reGroup := protected.Group("/routine-exercises")
		{
			reGroup.GET("/:routineExerciseId", reHandler.GetExercise)
			reGroup.PUT("/:routineExerciseId", reHandler.UpdateExercise)
			reGroup.DELETE("/:routineExerciseId", reHandler.DeleteExercise)
		}
	}
}

package app

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/campushq/coursereg/internal/models"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Browse and manage course listings",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses for the selected generation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		coord, err := buildCoordinator(cmd.Context())
		if err != nil {
			return err
		}
		defer coord.Close()

		generation, _ := cmd.Flags().GetString("generation")
		courses := coord.Courses()
		if generation != "" && generation != coord.Session().Generation {
			courses = coord.LoadCourses(cmd.Context(), generation)
		}

		printCourses(courses, coord.IsRegistered)
		return nil
	},
}

var coursesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active course",
	RunE: func(cmd *cobra.Command, _ []string) error {
		coord, err := buildCoordinator(cmd.Context())
		if err != nil {
			return err
		}
		defer coord.Close()

		courses, err := coord.LoadActiveCourse(cmd.Context())
		if err != nil {
			return err
		}
		printCourses(courses, coord.IsRegistered)
		return nil
	},
}

var coursesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new course listing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		coord, err := buildCoordinator(cmd.Context())
		if err != nil {
			return err
		}
		defer coord.Close()

		coord.CreateCourse(cmd.Context())
		return nil
	},
}

var coursesEditCmd = &cobra.Command{
	Use:   "edit <course-id>",
	Short: "Edit an existing course listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := buildCoordinator(cmd.Context())
		if err != nil {
			return err
		}
		defer coord.Close()

		courseID, err := parseCourseID(args[0])
		if err != nil {
			return err
		}

		course := findCourse(coord.Courses(), courseID)
		if course == nil {
			return fmt.Errorf("course %d is not in the current list", courseID)
		}

		coord.UpdateCourse(cmd.Context(), course)
		return nil
	},
}

var coursesDeleteCmd = &cobra.Command{
	Use:   "delete <course-id>",
	Short: "Delete a course listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := buildCoordinator(cmd.Context())
		if err != nil {
			return err
		}
		defer coord.Close()

		courseID, err := parseCourseID(args[0])
		if err != nil {
			return err
		}

		coord.DeleteCourse(cmd.Context(), courseID)
		return nil
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <course-id>",
	Short: "Register for a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := buildCoordinator(cmd.Context())
		if err != nil {
			return err
		}
		defer coord.Close()

		courseID, err := parseCourseID(args[0])
		if err != nil {
			return err
		}

		coord.JoinCourse(cmd.Context(), courseID)
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <course-id>",
	Short: "Withdraw a course registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := buildCoordinator(cmd.Context())
		if err != nil {
			return err
		}
		defer coord.Close()

		courseID, err := parseCourseID(args[0])
		if err != nil {
			return err
		}

		coord.CancelRegistration(cmd.Context(), courseID)
		return nil
	},
}

var generationCmd = &cobra.Command{
	Use:   "generation <cohort>",
	Short: "Change the selected generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := buildCoordinator(cmd.Context())
		if err != nil {
			return err
		}
		defer coord.Close()

		coord.ChangeGeneration(cmd.Context(), args[0])
		printCourses(coord.Courses(), coord.IsRegistered)
		return nil
	},
}

func init() {
	coursesListCmd.Flags().String("generation", "", "Generation to list instead of the stored selection")

	coursesCmd.AddCommand(coursesListCmd)
	coursesCmd.AddCommand(coursesShowCmd)
	coursesCmd.AddCommand(coursesCreateCmd)
	coursesCmd.AddCommand(coursesEditCmd)
	coursesCmd.AddCommand(coursesDeleteCmd)
}

func parseCourseID(arg string) (int64, error) {
	courseID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid course id %q", arg)
	}
	return courseID, nil
}

func findCourse(courses []models.Course, courseID int64) *models.Course {
	for i := range courses {
		if courses[i].ID == courseID {
			return &courses[i]
		}
	}
	return nil
}

func printCourses(courses []models.Course, isRegistered func(int64) bool) {
	if len(courses) == 0 {
		fmt.Println("No courses found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tINSTRUCTOR\tGENERATION\tREGISTERED")
	for _, course := range courses {
		registered := ""
		if isRegistered(course.ID) {
			registered = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			course.ID, course.Title, course.InstructorName, course.Generation, registered)
	}
	_ = w.Flush()
}

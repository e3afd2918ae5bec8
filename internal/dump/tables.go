package dump

// DefaultMapping returns the wodsmith D1 (SQLite) → PlanetScale (MySQL)
// mapping. Each call returns fresh maps.
func DefaultMapping() *Mapping {
	return &Mapping{
		TableNames: map[string]string{
			"user":                                    "users",
			"team":                                    "teams",
			"team_membership":                         "team_memberships",
			"team_role":                               "team_roles",
			"team_invitation":                         "team_invitations",
			"passkey_credential":                      "passkey_credentials",
			"credit_transaction":                      "credit_transactions",
			"purchased_item":                          "purchased_items",
			"programming_track":                       "programming_tracks",
			"team_programming_track":                  "team_programming_tracks",
			"track_workout":                           "track_workouts",
			"scheduled_workout_instance":              "scheduled_workout_instances",
			"entitlement_type":                        "entitlement_types",
			"entitlement":                             "entitlements",
			"feature":                                 "features",
			"limit":                                   "limits",
			"plan":                                    "plans",
			"plan_feature":                            "plan_features",
			"plan_limit":                              "plan_limits",
			"team_subscription":                       "team_subscriptions",
			"team_addon":                              "team_addons",
			"team_entitlement_override":               "team_entitlement_overrides",
			"team_usage":                              "team_usages",
			"team_feature_entitlement":                "team_feature_entitlements",
			"team_limit_entitlement":                  "team_limit_entitlements",
			"commerce_product":                        "commerce_products",
			"commerce_purchase":                       "commerce_purchases",
			"competition_divisions":                   "competition_divisions",
			"organizer_request":                       "organizer_requests",
			"movements":                               "movements",
			"spicy_tags":                              "spicy_tags",
			"workouts":                                "workouts",
			"workout_tags":                            "workout_tags",
			"workout_movements":                       "workout_movements",
			"results":                                 "results",
			"sets":                                    "sets",
			"scaling_groups":                          "scaling_groups",
			"scaling_levels":                          "scaling_levels",
			"workout_scaling_descriptions":            "workout_scaling_descriptions",
			"coaches":                                 "coaches",
			"locations":                               "locations",
			"class_catalog":                           "class_catalogs",
			"class_catalog_to_skills":                 "class_catalog_to_skills",
			"skills":                                  "skills",
			"coach_to_skills":                         "coach_to_skills",
			"coach_blackout_dates":                    "coach_blackout_dates",
			"coach_recurring_unavailability":          "coach_recurring_unavailability",
			"schedule_templates":                      "schedule_templates",
			"schedule_template_classes":               "schedule_template_classes",
			"schedule_template_class_required_skills": "schedule_template_class_required_skills",
			"generated_schedules":                     "generated_schedules",
			"scheduled_classes":                       "scheduled_classes",
			"competition_groups":                      "competition_groups",
			"competitions":                            "competitions",
			"competition_registrations":               "competition_registrations",
			"competition_venues":                      "competition_venues",
			"competition_heats":                       "competition_heats",
			"competition_heat_assignments":            "competition_heat_assignments",
			"competition_registration_questions":      "competition_registration_questions",
			"competition_registration_answers":        "competition_registration_answers",
			"competition_events":                      "competition_events",
			"sponsor_groups":                          "sponsor_groups",
			"sponsors":                                "sponsors",
			"affiliates":                              "affiliates",
			"scores":                                  "scores",
			"score_rounds":                            "score_rounds",
			"waivers":                                 "waivers",
			"waiver_signatures":                       "waiver_signatures",
			"judge_assignment_versions":               "judge_assignment_versions",
			"judge_heat_assignments":                  "judge_heat_assignments",
			"competition_judge_rotations":             "competition_judge_rotations",
			"submission_window_notifications":         "submission_window_notifications",
			"event_resources":                         "event_resources",
			"event_judging_sheets":                    "event_judging_sheets",
			"video_submissions":                       "video_submissions",
			"addresses":                               "addresses",
		},
		SkipTables: set(
			"d1_migrations",
			"revalidations",
			"tags",
			"purchased_item",
		),
		TimestampColumns: set(
			"created_at",
			"updated_at",
			"email_verified",
			"last_credit_refresh_at",
			"date_of_birth",
			"plan_expires_at",
			"stripe_onboarding_completed_at",
			"invited_at",
			"joined_at",
			"expires_at",
			"accepted_at",
			"expiration_date",
			"expiration_date_processed_at",
			"purchased_at",
			"subscribed_at",
			"current_period_start",
			"current_period_end",
			"trial_start",
			"trial_end",
			"deleted_at",
			"registered_at",
			"scheduled_time",
			"schedule_published_at",
			"completed_at",
			"paid_at",
			"reviewed_at",
			"published_at",
			"signed_at",
			"week_start_date",
			"start_time",
			"end_time",
			"start_date",
			"end_date",
			"date",
			"scheduled_date",
			"submitted_at",
			"recorded_at",
		),
		DateStringColumns: set(
			"start_date",
			"end_date",
			"registration_opens_at",
			"registration_closes_at",
			"submission_opens_at",
			"submission_closes_at",
		),
		BooleanColumns: set(
			"is_personal_team",
			"is_active",
			"is_system_role",
			"is_default",
			"is_system",
			"is_editable",
			"is_public",
			"as_rx",
			"is_manual_override",
			"cancel_at_period_end",
			"required",
			"for_teammates",
			"pass_stripe_fees_to_customer",
			"pass_platform_fees_to_customer",
		),
		TableOrder: []string{
			// 0: roots
			"users",
			"addresses",
			"movements",
			"spicy_tags",
			"entitlement_types",
			"features",
			"limits",
			"plans",

			// 1: owned by users
			"passkey_credentials",
			"credit_transactions",
			"purchased_items",
			"affiliates",

			// 2: teams (reference users)
			"teams",

			// 3: team and plan membership
			"team_memberships",
			"team_roles",
			"team_invitations",
			"team_subscriptions",
			"team_addons",
			"team_entitlement_overrides",
			"team_usages",
			"team_feature_entitlements",
			"team_limit_entitlements",
			"plan_features",
			"plan_limits",
			"entitlements",
			"organizer_requests",

			// 4: workouts and scaling
			"scaling_groups",
			"scaling_levels",
			"workouts",
			"workout_scaling_descriptions",
			"workout_tags",
			"workout_movements",

			// 5: gym scheduling
			"coaches",
			"locations",
			"class_catalogs",
			"skills",
			"coach_to_skills",
			"class_catalog_to_skills",
			"coach_blackout_dates",
			"coach_recurring_unavailability",
			"schedule_templates",
			"schedule_template_classes",
			"schedule_template_class_required_skills",
			"generated_schedules",
			"scheduled_classes",

			// 6: competitions and programming
			"competition_groups",
			"competitions",
			"programming_tracks",
			"team_programming_tracks",
			"track_workouts",
			"scheduled_workout_instances",

			// 7: registrations, heats, scores, commerce
			"competition_registrations",
			"competition_registration_questions",
			"competition_registration_answers",
			"competition_divisions",
			"competition_venues",
			"competition_heats",
			"competition_heat_assignments",
			"competition_events",
			"commerce_products",
			"commerce_purchases",
			"sponsor_groups",
			"sponsors",
			"results",
			"sets",
			"scores",
			"score_rounds",
			"waivers",
			"waiver_signatures",
			"judge_assignment_versions",
			"judge_heat_assignments",
			"competition_judge_rotations",
			"submission_window_notifications",
			"event_resources",
			"event_judging_sheets",
			"video_submissions",
		},
		BatchSize: DefaultBatchSize,
	}
}
